package repository

import (
	"context"
	"time"

	"qrstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 配送一覧用。注文の合計・日時（管理者一覧では注文者名も）を結合する。
type ShipmentWithOrder struct {
	model.Shipment
	UserID         int64           `json:"user_id"`
	UserName       string          `json:"user_name,omitempty"`
	OrderTotal     decimal.Decimal `json:"total"`
	OrderCreatedAt time.Time       `json:"order_created_at"`
}

type ShipmentRepository interface {
	Create(ctx context.Context, s model.Shipment) (model.Shipment, error)
	FindByID(ctx context.Context, id int64) (model.Shipment, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error)
	ExistsByOrderID(ctx context.Context, orderID int64) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]ShipmentWithOrder, error)
	ListAll(ctx context.Context) ([]ShipmentWithOrder, error)
	UpdateStatus(ctx context.Context, id int64, status model.ShipmentStatus) error
	Delete(ctx context.Context, id int64) error
}
