package repository

import (
	"context"
	"time"

	"qrstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 商品の現在価格を結合したカート1行分。
// 注文確定もこの形で読む（価格はカート時点ではなく現在値）。
type CartLine struct {
	CartItemID int64           `json:"cart_id"`
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	AddedAt    time.Time       `json:"added_at"`
}

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	//products結合済みの明細（削除済み商品は出てこない）
	ListLinesByUserID(ctx context.Context, userID int64) ([]CartLine, error)
	//同一商品は数量加算
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	//自分の行だけ更新できる
	UpdateQuantity(ctx context.Context, cartItemID int64, userID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64, userID int64) error
	Clear(ctx context.Context, userID int64) error
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}
