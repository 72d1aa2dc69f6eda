package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"qrstore/internal/authz"
	"qrstore/internal/domain/model"
	repo "qrstore/internal/repository"
	"qrstore/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Helper
// =====================

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, want, he.Status)
}

func newOrderUC(orders *MockOrderRepository, orderItems *MockOrderItemRepository, cart *MockCartRepository) *usecase.OrderUsecase {
	tx := &fakeTxManager{repos: &fakeTxRepos{
		orders:     orders,
		orderItems: orderItems,
		cart:       cart,
		products:   new(MockProductRepository),
	}}
	return usecase.NewOrderUsecase(tx, orders, orderItems)
}

func adminPrincipal() authz.Principal {
	return authz.Principal{UserID: 99, Email: "admin@test.com", Role: model.RoleAdmin}
}

func userPrincipal(id int64) authz.Principal {
	return authz.Principal{UserID: id, Email: "user@test.com", Role: model.RoleUser}
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)
	cart := new(MockCartRepository)

	userID := int64(1)

	cart.On("ListLinesByUserID", mock.Anything, userID).Return([]repo.CartLine{
		{CartItemID: 1, ProductID: 7, Name: "mug", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{CartItemID: 2, ProductID: 9, Name: "pen", Price: decimal.RequireFromString("5.50"), Quantity: 1},
	}, nil)

	//合計は現在価格から計算される（10.00*2 + 5.50*1 = 25.50）
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == userID &&
			o.Status == model.OrderStatusPending &&
			o.Total.Equal(decimal.RequireFromString("25.50"))
	})).Return(int64(100), nil)

	//明細には注文時点の単価と小計が凍結される
	orderItems.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		return items[0].ProductID == 7 &&
			items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) &&
			items[0].Subtotal.Equal(decimal.RequireFromString("20.00")) &&
			items[1].ProductID == 9 &&
			items[1].Subtotal.Equal(decimal.RequireFromString("5.50"))
	})).Return(nil)

	//注文が通ったらカートは空になる
	cart.On("Clear", mock.Anything, userID).Return(nil)

	u := newOrderUC(orders, orderItems, cart)

	out, err := u.PlaceOrder(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.OrderID)
	assert.Equal(t, "order created", out.Message)

	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
	cart.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)
	cart := new(MockCartRepository)

	cart.On("ListLinesByUserID", mock.Anything, int64(1)).Return([]repo.CartLine{}, nil)

	u := newOrderUC(orders, orderItems, cart)

	_, err := u.PlaceOrder(ctx, 1)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	//空カートでは注文もカート消去も起きない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	cart.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_ItemInsertFails(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)
	cart := new(MockCartRepository)

	cart.On("ListLinesByUserID", mock.Anything, int64(1)).Return([]repo.CartLine{
		{CartItemID: 1, ProductID: 7, Price: decimal.RequireFromString("10.00"), Quantity: 1},
	}, nil)
	orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(100), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(assert.AnError)

	u := newOrderUC(orders, orderItems, cart)

	_, err := u.PlaceOrder(ctx, 1)
	assertHTTPStatus(t, err, http.StatusInternalServerError)

	//明細が入らなかったらカートは消さない（txごとロールバックされる）
	cart.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// =====================
// GetOrderDetail
// =====================

func TestOrderUsecase_GetOrderDetail_Owner(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	orderItems.On("ListViewsByOrderID", mock.Anything, int64(10)).Return([]repo.OrderItemView{
		{ProductID: 7, Name: "mug", Quantity: 2},
	}, nil)

	u := newOrderUC(orders, orderItems, new(MockCartRepository))

	out, err := u.GetOrderDetail(ctx, userPrincipal(1), 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.Order.ID)
	assert.Len(t, out.Items, 1)
}

// 他人の注文は404（存在自体を隠す）
func TestOrderUsecase_GetOrderDetail_NotOwner(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, UserID: 2,
	}, nil)

	u := newOrderUC(orders, orderItems, new(MockCartRepository))

	_, err := u.GetOrderDetail(ctx, userPrincipal(1), 10)
	assertHTTPStatus(t, err, http.StatusNotFound)

	orderItems.AssertNotCalled(t, "ListViewsByOrderID", mock.Anything, mock.Anything)
}

// 管理者は誰の注文でも見られる
func TestOrderUsecase_GetOrderDetail_Admin(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, UserID: 2,
	}, nil)
	orderItems.On("ListViewsByOrderID", mock.Anything, int64(10)).Return([]repo.OrderItemView{}, nil)

	u := newOrderUC(orders, orderItems, new(MockCartRepository))

	_, err := u.GetOrderDetail(ctx, adminPrincipal(), 10)
	assert.NoError(t, err)
}

// =====================
// UpdateStatus
// =====================

func TestOrderUsecase_UpdateStatus_Forward(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, Status: model.OrderStatusPending,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(10), model.OrderStatusShipped).Return(nil)

	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, adminPrincipal(), 10, "Shipped")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

func TestOrderUsecase_UpdateStatus_NonAdmin(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, userPrincipal(1), 10, "Shipped")
	assertHTTPStatus(t, err, http.StatusForbidden)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, adminPrincipal(), 10, "Cancelled")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// 後退は409
func TestOrderUsecase_UpdateStatus_Regression(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, Status: model.OrderStatusDelivered,
	}, nil)

	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, adminPrincipal(), 10, "Pending")
	assertHTTPStatus(t, err, http.StatusConflict)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// 飛び級（Pending→Delivered）も409
func TestOrderUsecase_UpdateStatus_SkipStep(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, Status: model.OrderStatusPending,
	}, nil)

	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, adminPrincipal(), 10, "Delivered")
	assertHTTPStatus(t, err, http.StatusConflict)
}

// 同じ値への更新は成功扱いで何もしない
func TestOrderUsecase_UpdateStatus_SameStatusNoop(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{
		ID: 10, Status: model.OrderStatusShipped,
	}, nil)

	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	err := u.UpdateStatus(ctx, adminPrincipal(), 10, "Shipped")
	assert.NoError(t, err)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// DeleteOrder
// =====================

func TestOrderUsecase_DeleteOrder_Owner(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1}, nil)
	orderItems.On("DeleteByOrderID", mock.Anything, int64(10)).Return(nil)
	orders.On("Delete", mock.Anything, int64(10)).Return(nil)

	u := newOrderUC(orders, orderItems, new(MockCartRepository))

	err := u.DeleteOrder(ctx, userPrincipal(1), 10)
	assert.NoError(t, err)

	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
}

func TestOrderUsecase_DeleteOrder_NotOwner(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	orderItems := new(MockOrderItemRepository)

	orders.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 2}, nil)

	u := newOrderUC(orders, orderItems, new(MockCartRepository))

	err := u.DeleteOrder(ctx, userPrincipal(1), 10)
	assertHTTPStatus(t, err, http.StatusForbidden)

	orderItems.AssertNotCalled(t, "DeleteByOrderID", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// =====================
// ListAllOrders
// =====================

func TestOrderUsecase_ListAllOrders_AdminOnly(t *testing.T) {
	ctx := context.Background()

	orders := new(MockOrderRepository)
	u := newOrderUC(orders, new(MockOrderItemRepository), new(MockCartRepository))

	_, err := u.ListAllOrders(ctx, userPrincipal(1))
	assertHTTPStatus(t, err, http.StatusForbidden)

	orders.On("ListAll", mock.Anything).Return([]repo.OrderWithUser{
		{Order: model.Order{ID: 1, UserID: 2}, UserName: "taro"},
	}, nil)

	out, err := u.ListAllOrders(ctx, adminPrincipal())
	assert.NoError(t, err)
	assert.Equal(t, 1, out.TotalOrders)
	assert.Equal(t, "taro", out.Orders[0].UserName)
}
