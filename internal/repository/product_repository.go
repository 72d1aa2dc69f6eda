package repository

import (
	"context"
	"errors"

	"qrstore/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索の条件。ポインタはその条件を使わない意味。
type ProductListQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    bool
	Brand      string
	Search     string
	Sort       string
}

// 商品の永続化だけを約束。ソフトデリート済みは通常の取得に出てこない。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//削除済みも含めて引く（restore判定用）
	FindAnyByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}
