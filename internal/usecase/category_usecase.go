package usecase

import (
	"context"
	"net/http"
	"strings"

	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateCategoryOutput struct {
	Message    string `json:"message"`
	CategoryID int64  `json:"category_id"`
}

type CategoryListOutput struct {
	Total      int              `json:"total"`
	Categories []model.Category `json:"categories"`
}

// カテゴリ作成。アクティブな行に同名があれば409。
func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (CreateCategoryOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CreateCategoryOutput{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	exists, err := u.categoryRepo.ExistsActiveByName(ctx, name)
	if err != nil {
		return CreateCategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return CreateCategoryOutput{}, NewHTTPError(http.StatusConflict, "category already exists")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
	if err != nil {
		return CreateCategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CreateCategoryOutput{Message: "category created", CategoryID: c.ID}, nil
}

// アクティブなカテゴリ一覧（name昇順）
func (u *CategoryUsecase) List(ctx context.Context) (CategoryListOutput, error) {
	categories, err := u.categoryRepo.ListActive(ctx)
	if err != nil {
		return CategoryListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CategoryListOutput{Total: len(categories), Categories: categories}, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}

	err := u.categoryRepo.Update(ctx, id, name, in.Description)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ソフトデリート。既に削除済みなら404（元実装に合わせる）。
func (u *CategoryUsecase) SoftDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.SoftDelete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "category not found or already deleted")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CategoryUsecase) Restore(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.Restore(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "category not found or already active")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
