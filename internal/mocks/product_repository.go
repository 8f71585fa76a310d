package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/repository"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, params domain.PaginationParams) ([]domain.Product, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *ProductRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.Product, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type StockMovementRepository struct {
	mock.Mock
}

func (m *StockMovementRepository) Create(ctx context.Context, movement *domain.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *StockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) ([]domain.StockMovement, int64, error) {
	args := m.Called(ctx, productID, params)
	return args.Get(0).([]domain.StockMovement), args.Get(1).(int64), args.Error(2)
}
