package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// ステータスは前進のみ（Pending → Shipped → Delivered）。
// 同じ値への更新は何もしない扱い、後退は拒否する。
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending: OrderStatusShipped,
	OrderStatusShipped: OrderStatusDelivered,
}

// 文字列をOrderStatusに変換。不正な値はfalse。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// fromからtoへ進めるか
func CanTransitionOrder(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	return orderTransitions[from] == to
}

// Totalは作成時点のOrderItem小計の合計を凍結したもの。
// 後から商品価格が変わっても再計算しない。
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
