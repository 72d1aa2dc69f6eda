package usecase

import (
	"context"
	"net/http"
	"time"

	"qrstore/internal/authz"
	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, orderItems: orderItems}
}

type PlaceOrderOutput struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

type OrderListOutput struct {
	TotalOrders int           `json:"total_orders"`
	Orders      []model.Order `json:"orders"`
}

type OrderDetailOutput struct {
	Order model.Order          `json:"order"`
	Items []repo.OrderItemView `json:"items"`
}

type AdminOrderListOutput struct {
	TotalOrders int                  `json:"total_orders"`
	Orders      []repo.OrderWithUser `json:"orders"`
}

// PlaceOrder はカートを注文に変換する。
// カート読み取り→合計計算→Order作成→OrderItem作成→カート全消し
// を1トランザクションで行う。途中で失敗したら中途半端な状態は残らない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out PlaceOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品の現在価格を結合してカートを読む
		lines, err := r.Cart().ListLinesByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//小計と合計はdecimalで計算する（floatは丸めがずれる）
		items := make([]model.OrderItem, 0, len(lines))
		total := decimal.Zero

		for _, line := range lines {
			subtotal := line.Price.Mul(decimal.NewFromInt(line.Quantity))

			items = append(items, model.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.Price, //注文時点の価格を凍結
				Subtotal:  subtotal,
			})

			total = total.Add(subtotal)
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:    userID,
			Total:     total,
			Status:    model.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートは注文成功のときだけ空になる
		if err := r.Cart().Clear(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PlaceOrderOutput{Message: "order created", OrderID: orderID}
		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderListOutput{TotalOrders: len(orders), Orders: orders}, nil
}

// 注文詳細。owner-or-admin以外には存在ごと隠す。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, p authz.Principal, orderID int64) (OrderDetailOutput, error) {
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の注文は「存在しない扱い」にする
	if !authz.CanAccess(p, o.UserID) {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItems.ListViewsByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{Order: o, Items: items}, nil
}

// ステータス更新（管理者のみ）。
// 前進のみ許す。後退させようとしたら409。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, p authz.Principal, orderID int64, status string) error {
	if !p.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next, ok := model.ParseOrderStatus(status)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !model.CanTransitionOrder(o.Status, next) {
		return NewHTTPError(http.StatusConflict, "invalid status transition")
	}
	if o.Status == next {
		return nil
	}

	if err := u.orders.UpdateStatus(ctx, orderID, next); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 注文削除（本人または管理者）。
// 明細→注文の順で消す。途中で失敗したら両方残る。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, p authz.Principal, orderID int64) error {
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !authz.CanAccess(p, o.UserID) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 全注文一覧（管理者のみ）
func (u *OrderUsecase) ListAllOrders(ctx context.Context, p authz.Principal) (AdminOrderListOutput, error) {
	if !p.IsAdmin() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}

	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminOrderListOutput{TotalOrders: len(orders), Orders: orders}, nil
}
