package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/mocks"
	"warehouse-manager/internal/pkg/i18n"
)

type fixture struct {
	orders   *mocks.OrderRepository
	products *mocks.ProductRepository
	stock    *mocks.StockChecker
	notifier *mocks.Notifier
	svc      Service
}

func setup() fixture {
	f := fixture{
		orders:   new(mocks.OrderRepository),
		products: new(mocks.ProductRepository),
		stock:    new(mocks.StockChecker),
		notifier: new(mocks.Notifier),
	}
	f.svc = NewService(f.orders, f.products, f.stock)
	f.svc.SetNotifier(f.notifier)
	return f
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	widget := &domain.Product{ID: uuid.New(), SKU: "WID-001", Name: "Widget", Quantity: 10, ReorderLevel: 4, UnitPrice: 2.5}

	t.Run("empty order", func(t *testing.T) {
		f := setup()
		_, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{CustomerName: "Acme"})
		assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		f := setup()
		_, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{
			CustomerName: "Acme",
			Items:        []domain.CreateOrderItemInput{{ProductID: widget.ID, Quantity: 0}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("merges lines and checks stock levels", func(t *testing.T) {
		f := setup()
		f.products.On("GetByID", ctx, widget.ID).Return(widget, nil).Once()
		f.orders.On("Create", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return len(o.Items) == 1 && o.Items[0].Quantity == 7 && o.Total == 17.5 && o.Status == domain.OrderPending
		})).Return(nil).Once()
		f.notifier.On("Notify", ctx, userID, domain.NotifSuccess, i18n.T("order_created_title"), mock.Anything, mock.Anything).
			Return(&domain.Notification{}, nil).Once()
		f.stock.On("CheckStockLevel", ctx, userID, mock.MatchedBy(func(p *domain.Product) bool {
			return p.ID == widget.ID && p.Quantity == 3
		})).Once()

		order, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{
			CustomerName: " Acme ",
			Items: []domain.CreateOrderItemInput{
				{ProductID: widget.ID, Quantity: 3},
				{ProductID: widget.ID, Quantity: 4},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme", order.CustomerName)
		assert.Equal(t, 10, widget.Quantity, "the loaded product is not mutated")
		f.orders.AssertExpectations(t)
		f.stock.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("insufficient stock notifies failure", func(t *testing.T) {
		f := setup()
		f.products.On("GetByID", ctx, widget.ID).Return(widget, nil).Once()
		f.notifier.On("Notify", ctx, userID, domain.NotifError, i18n.T("order_failed_title"), mock.Anything, mock.MatchedBy(func(opts domain.EmitOptions) bool {
			return opts.Category == domain.CategoryOrders && opts.Priority == domain.PriorityHigh
		})).Return(&domain.Notification{}, nil).Once()

		_, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{
			CustomerName: "Acme",
			Items:        []domain.CreateOrderItemInput{{ProductID: widget.ID, Quantity: 11}},
		})

		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := setup()
		missing := uuid.New()
		f.products.On("GetByID", ctx, missing).Return(nil, nil).Once()
		f.notifier.On("Notify", ctx, userID, domain.NotifError, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

		_, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{
			CustomerName: "Acme",
			Items:        []domain.CreateOrderItemInput{{ProductID: missing, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		f := setup()
		f.products.On("GetByID", ctx, widget.ID).Return(widget, nil).Once()
		f.orders.On("Create", ctx, mock.Anything).Return(errors.New("connection reset")).Once()
		f.notifier.On("Notify", ctx, userID, domain.NotifError, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

		_, err := f.svc.Create(ctx, userID, domain.CreateOrderInput{
			CustomerName: "Acme",
			Items:        []domain.CreateOrderItemInput{{ProductID: widget.ID, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create order")
		f.stock.AssertNotCalled(t, "CheckStockLevel", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	id := uuid.New()

	t.Run("invalid transition", func(t *testing.T) {
		f := setup()
		f.orders.On("GetByID", ctx, id).Return(&domain.Order{ID: id, Status: domain.OrderDelivered}, nil)

		_, err := f.svc.UpdateStatus(ctx, id, userID, domain.UpdateOrderStatusInput{Status: domain.OrderCancelled})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := setup()
		_, err := f.svc.UpdateStatus(ctx, id, userID, domain.UpdateOrderStatusInput{Status: "lost"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("not found", func(t *testing.T) {
		f := setup()
		f.orders.On("GetByID", ctx, id).Return(nil, nil)

		_, err := f.svc.UpdateStatus(ctx, id, userID, domain.UpdateOrderStatusInput{Status: domain.OrderProcessing})
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("cancel warns", func(t *testing.T) {
		f := setup()
		f.orders.On("GetByID", ctx, id).Return(&domain.Order{ID: id, OrderNumber: "ORD-1001", Status: domain.OrderPending}, nil)
		f.orders.On("UpdateStatus", ctx, mock.Anything, domain.OrderCancelled).Return(nil)
		f.notifier.On("Notify", ctx, userID, domain.NotifWarning, i18n.T("order_cancelled_title"), mock.Anything, mock.Anything).
			Return(&domain.Notification{}, nil).Once()

		order, err := f.svc.UpdateStatus(ctx, id, userID, domain.UpdateOrderStatusInput{Status: domain.OrderCancelled})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, order.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("advance informs", func(t *testing.T) {
		f := setup()
		f.orders.On("GetByID", ctx, id).Return(&domain.Order{ID: id, OrderNumber: "ORD-1001", Status: domain.OrderProcessing}, nil)
		f.orders.On("UpdateStatus", ctx, mock.Anything, domain.OrderShipped).Return(nil)
		f.notifier.On("Notify", ctx, userID, domain.NotifInfo, mock.Anything, i18n.T("order_status_message", "ORD-1001", "shipped"), mock.Anything).
			Return(&domain.Notification{}, nil).Once()

		order, err := f.svc.UpdateStatus(ctx, id, userID, domain.UpdateOrderStatusInput{Status: domain.OrderShipped})

		require.NoError(t, err)
		assert.Equal(t, domain.OrderShipped, order.Status)
		f.notifier.AssertExpectations(t)
	})
}

func TestList(t *testing.T) {
	f := setup()
	status := domain.OrderPending
	params := domain.PaginationParams{Page: 0, PageSize: 0}
	normalized := domain.PaginationParams{Page: 1, PageSize: 20}
	f.orders.On("List", mock.Anything, &status, normalized).Return([]domain.Order{{OrderNumber: "ORD-1000"}}, int64(1), nil)

	resp, err := f.svc.List(context.Background(), &status, params)

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Page)
}
