package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"warehouse-manager/internal/domain"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) ([]domain.Order, int64, error) {
	args := m.Called(ctx, status, params)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, status domain.OrderStatus) error {
	args := m.Called(ctx, order, status)
	if args.Error(0) == nil {
		order.Status = status
	}
	return args.Error(0)
}

type StockChecker struct {
	mock.Mock
}

func (m *StockChecker) CheckStockLevel(ctx context.Context, userID uuid.UUID, product *domain.Product) {
	m.Called(ctx, userID, product)
}
