package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/notification"
)

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) Create(ctx context.Context, userID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockInventoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockInventoryService) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockInventoryService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockInventoryService) List(ctx context.Context, filter repository.ProductFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Product]), args.Error(1)
}

func (m *mockInventoryService) AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.AdjustStockInput) (*domain.Product, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockInventoryService) ListMovements(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.StockMovement], error) {
	args := m.Called(ctx, productID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.StockMovement]), args.Error(1)
}

func (m *mockInventoryService) CheckStockLevel(ctx context.Context, userID uuid.UUID, product *domain.Product) {
	m.Called(ctx, userID, product)
}

func (m *mockInventoryService) SetNotifier(notifier notification.Notifier) {}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) Create(ctx context.Context, userID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderService) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Order]), args.Error(1)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateOrderStatusInput) (*domain.Order, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderService) SetNotifier(notifier notification.Notifier) {}
