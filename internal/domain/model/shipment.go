package model

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "Pending"
	ShipmentStatusInTransit ShipmentStatus = "InTransit"
	ShipmentStatusDelivered ShipmentStatus = "Delivered"
)

var shipmentTransitions = map[ShipmentStatus]ShipmentStatus{
	ShipmentStatusPending:   ShipmentStatusInTransit,
	ShipmentStatusInTransit: ShipmentStatusDelivered,
}

func ParseShipmentStatus(s string) (ShipmentStatus, bool) {
	switch ShipmentStatus(s) {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return ShipmentStatus(s), true
	}
	return "", false
}

func CanTransitionShipment(from, to ShipmentStatus) bool {
	if from == to {
		return true
	}
	return shipmentTransitions[from] == to
}

// 配送記録。OrderがShippedになってから1件だけ作れる（order_idは一意）。
type Shipment struct {
	ID                int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64          `gorm:"not null;uniqueIndex" json:"order_id"`
	TrackingNumber    string         `gorm:"type:varchar(100);not null" json:"tracking_number"`
	ShippingCompany   string         `gorm:"type:varchar(100);not null" json:"shipping_company"`
	EstimatedDelivery time.Time      `gorm:"not null" json:"estimated_delivery"`
	Status            ShipmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt         time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
