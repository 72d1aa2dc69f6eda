package repository

import (
	"context"

	"qrstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 注文詳細の表示用。商品名と画像を結合する。
type OrderItemView struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListViewsByOrderID(ctx context.Context, orderID int64) ([]OrderItemView, error)
	//Order削除時に先に明細を消す
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
