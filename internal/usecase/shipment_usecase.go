package usecase

import (
	"context"
	"net/http"
	"time"

	"qrstore/internal/authz"
	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"
)

type ShipmentUsecase struct {
	shipments repo.ShipmentRepository
	orders    repo.OrderRepository
}

func NewShipmentUsecase(shipments repo.ShipmentRepository, orders repo.OrderRepository) *ShipmentUsecase {
	return &ShipmentUsecase{shipments: shipments, orders: orders}
}

type CreateShipmentInput struct {
	OrderID           int64     `json:"order_id"`
	TrackingNumber    string    `json:"tracking_number"`
	ShippingCompany   string    `json:"shipping_company"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

type CreateShipmentOutput struct {
	Message    string `json:"message"`
	ShipmentID int64  `json:"shipment_id"`
}

type ShipmentListOutput struct {
	TotalShipments int                      `json:"total_shipments"`
	Shipments      []repo.ShipmentWithOrder `json:"shipments"`
}

// 配送作成（管理者のみ）。
// 対象のOrderがShippedでなければ作れない。updateOrderStatusを先に呼ぶ前提。
func (u *ShipmentUsecase) Create(ctx context.Context, p authz.Principal, in CreateShipmentInput) (CreateShipmentOutput, error) {
	if !p.IsAdmin() {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if in.OrderID <= 0 {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}
	if in.TrackingNumber == "" || in.ShippingCompany == "" {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusBadRequest, "tracking_number and shipping_company are required")
	}

	o, err := u.orders.FindByID(ctx, in.OrderID)
	if err == repo.ErrNotFound {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//Shippedのときだけ作れる
	if o.Status != model.OrderStatusShipped {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusConflict, "order not in a shippable state")
	}

	//1注文につき配送は1件
	exists, err := u.shipments.ExistsByOrderID(ctx, in.OrderID)
	if err != nil {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return CreateShipmentOutput{}, NewHTTPError(http.StatusConflict, "shipment already exists for this order")
	}

	s, err := u.shipments.Create(ctx, model.Shipment{
		OrderID:           in.OrderID,
		TrackingNumber:    in.TrackingNumber,
		ShippingCompany:   in.ShippingCompany,
		EstimatedDelivery: in.EstimatedDelivery,
		Status:            model.ShipmentStatusPending,
	})
	if err != nil {
		//一意制約と競合した場合もここに落ちる
		return CreateShipmentOutput{}, NewHTTPError(http.StatusConflict, "shipment already exists for this order")
	}

	return CreateShipmentOutput{Message: "shipment created", ShipmentID: s.ID}, nil
}

// 注文IDで配送を引く。注文の持ち主か管理者だけ見られる。
func (u *ShipmentUsecase) GetByOrder(ctx context.Context, p authz.Principal, orderID int64) (model.Shipment, error) {
	if orderID <= 0 {
		return model.Shipment{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Shipment{}, NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	if err != nil {
		return model.Shipment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !authz.CanAccess(p, o.UserID) {
		return model.Shipment{}, NewHTTPError(http.StatusNotFound, "shipment not found")
	}

	s, err := u.shipments.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Shipment{}, NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	if err != nil {
		return model.Shipment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return s, nil
}

// ステータス更新（管理者のみ）。前進のみ。
func (u *ShipmentUsecase) UpdateStatus(ctx context.Context, p authz.Principal, shipmentID int64, status string) error {
	if !p.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if shipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next, ok := model.ParseShipmentStatus(status)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	s, err := u.shipments.FindByID(ctx, shipmentID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !model.CanTransitionShipment(s.Status, next) {
		return NewHTTPError(http.StatusConflict, "invalid status transition")
	}
	if s.Status == next {
		return nil
	}

	if err := u.shipments.UpdateStatus(ctx, shipmentID, next); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "shipment not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 配送削除（管理者のみ）
func (u *ShipmentUsecase) Delete(ctx context.Context, p authz.Principal, shipmentID int64) error {
	if !p.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if shipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.shipments.Delete(ctx, shipmentID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ユーザーの配送一覧。本人か管理者だけ。
func (u *ShipmentUsecase) ListByUser(ctx context.Context, p authz.Principal, userID int64) (ShipmentListOutput, error) {
	if userID <= 0 {
		return ShipmentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if !authz.CanAccess(p, userID) {
		return ShipmentListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	shipments, err := u.shipments.ListByUserID(ctx, userID)
	if err != nil {
		return ShipmentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ShipmentListOutput{TotalShipments: len(shipments), Shipments: shipments}, nil
}

// 全配送一覧（管理者のみ）
func (u *ShipmentUsecase) ListAll(ctx context.Context, p authz.Principal) (ShipmentListOutput, error) {
	if !p.IsAdmin() {
		return ShipmentListOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}

	shipments, err := u.shipments.ListAll(ctx)
	if err != nil {
		return ShipmentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ShipmentListOutput{TotalShipments: len(shipments), Shipments: shipments}, nil
}
