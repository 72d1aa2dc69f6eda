package usecase

import (
	"context"
	"net/http"
	"strings"

	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"

	"github.com/shopspring/decimal"
)

// 1ページの件数は固定
const productPageSize = 10

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

func NewProductUsecase(productRepo repo.ProductRepository, categoryRepo repo.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, categoryRepo: categoryRepo}
}

type ListProductsInput struct {
	Page       int
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    bool
	Brand      string
	Search     string
	Sort       string
}

type ProductListOutput struct {
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
	TotalProducts int64           `json:"totalProducts"`
	Products      []model.Product `json:"products"`
}

type ProductDetailOutput struct {
	model.Product
	CategoryName string `json:"category_name,omitempty"`
}

type CreateProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	CategoryID  *int64           `json:"category_id"`
	Brand       string           `json:"brand"`
	ImageURL    string           `json:"image_url"`
}

type CreateProductOutput struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// 部分更新。nil/空の項目は触らない。
type UpdateProductInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	CategoryID  *int64           `json:"category_id"`
	Brand       string           `json:"brand"`
	ImageURL    string           `json:"image_url"`
}

// 公開一覧。削除済みは出てこない。
func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	page := in.Page
	if page <= 0 {
		page = 1
	}

	products, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       page,
		Limit:      productPageSize,
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		InStock:    in.InStock,
		Brand:      in.Brand,
		Search:     in.Search,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	totalPages := int((total + productPageSize - 1) / productPageSize)

	return ProductListOutput{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
		Products:      products,
	}, nil
}

// 商品詳細。カテゴリ名を付けて返す。
func (u *ProductUsecase) Detail(ctx context.Context, id int64) (ProductDetailOutput, error) {
	if id <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ProductDetailOutput{Product: p}

	//カテゴリが消えていても商品自体は返す
	if c, err := u.categoryRepo.FindByID(ctx, p.CategoryID); err == nil {
		out.CategoryName = c.Name
	}

	return out, nil
}

// 商品作成（管理者ルート）
func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (CreateProductOutput, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price == nil || in.Stock == nil || in.CategoryID == nil {
		return CreateProductOutput{}, NewHTTPError(http.StatusBadRequest, "name, price, stock and category_id are required")
	}
	if in.Price.IsNegative() || *in.Stock < 0 {
		return CreateProductOutput{}, NewHTTPError(http.StatusBadRequest, "price and stock must not be negative")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       *in.Stock,
		CategoryID:  *in.CategoryID,
		Brand:       in.Brand,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return CreateProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CreateProductOutput{Message: "product created", ProductID: p.ID}, nil
}

// 指定された項目だけ更新する
func (u *ProductUsecase) Update(ctx context.Context, id int64, in UpdateProductInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields := map[string]interface{}{}
	if strings.TrimSpace(in.Name) != "" {
		fields["name"] = in.Name
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "price must not be negative")
		}
		fields["price"] = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return NewHTTPError(http.StatusBadRequest, "stock must not be negative")
		}
		fields["stock"] = *in.Stock
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if in.Brand != "" {
		fields["brand"] = in.Brand
	}
	if in.ImageURL != "" {
		fields["image_url"] = in.ImageURL
	}

	if len(fields) == 0 {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	err := u.productRepo.Update(ctx, id, fields)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ソフトデリート。既に削除済みなら400。
func (u *ProductUsecase) SoftDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindAnyByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.DeletedAt.Valid {
		return NewHTTPError(http.StatusBadRequest, "product is already deleted")
	}

	if err := u.productRepo.SoftDelete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 削除済み商品を一覧へ戻す。削除されていなければ404。
func (u *ProductUsecase) Restore(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.Restore(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found or already active")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
