package repository

import (
	"context"

	"qrstore/internal/domain/model"
)

// 管理者一覧用。注文にユーザー名を結合したもの。
type OrderWithUser struct {
	model.Order
	UserName string `json:"user_name"`
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	//全注文＋注文者名（管理者用）
	ListAll(ctx context.Context) ([]OrderWithUser, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
}
