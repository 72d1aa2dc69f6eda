package repository

import (
	"context"
	"errors"

	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"

	"gorm.io/gorm"
)

type ShipmentGormRepository struct {
	db *gorm.DB
}

// DI
func NewShipmentGormRepository(db *gorm.DB) *ShipmentGormRepository {
	return &ShipmentGormRepository{db: db}
}

func (r *ShipmentGormRepository) Create(ctx context.Context, s model.Shipment) (model.Shipment, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

func (r *ShipmentGormRepository) FindByID(ctx context.Context, id int64) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

func (r *ShipmentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

func (r *ShipmentGormRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ユーザーの注文に紐づく配送を新しい順で返す
func (r *ShipmentGormRepository) ListByUserID(ctx context.Context, userID int64) ([]repo.ShipmentWithOrder, error) {
	var shipments []repo.ShipmentWithOrder
	err := r.db.WithContext(ctx).
		Table("shipments").
		Select("shipments.*, orders.user_id, orders.total AS order_total, orders.created_at AS order_created_at").
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Where("orders.user_id = ?", userID).
		Order("shipments.created_at desc").Order("shipments.id desc").
		Scan(&shipments).Error
	if err != nil {
		return []repo.ShipmentWithOrder{}, err
	}
	return shipments, nil
}

// 全配送に注文と注文者名を結合して返す（管理者用）
func (r *ShipmentGormRepository) ListAll(ctx context.Context) ([]repo.ShipmentWithOrder, error) {
	var shipments []repo.ShipmentWithOrder
	err := r.db.WithContext(ctx).
		Table("shipments").
		Select("shipments.*, orders.user_id, users.name AS user_name, orders.total AS order_total, orders.created_at AS order_created_at").
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("shipments.created_at desc").Order("shipments.id desc").
		Scan(&shipments).Error
	if err != nil {
		return []repo.ShipmentWithOrder{}, err
	}
	return shipments, nil
}

func (r *ShipmentGormRepository) UpdateStatus(ctx context.Context, id int64, status model.ShipmentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ShipmentGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Shipment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
