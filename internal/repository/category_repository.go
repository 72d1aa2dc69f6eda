package repository

import (
	"context"

	"qrstore/internal/domain/model"
)

type CategoryRepository interface {
	//削除されていないものだけ、name昇順
	ListActive(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	//削除済みも含めて引く（restore判定用）
	FindAnyByID(ctx context.Context, id int64) (model.Category, error)
	//アクティブな行の中で名前重複を調べる
	ExistsActiveByName(ctx context.Context, name string) (bool, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, id int64, name string, description string) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}
