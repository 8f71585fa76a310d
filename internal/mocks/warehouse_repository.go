package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"warehouse-manager/internal/domain"
)

type WarehouseRepository struct {
	mock.Mock
}

func (m *WarehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *WarehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Warehouse), args.Error(1)
}

func (m *WarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *WarehouseRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Warehouse, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *WarehouseRepository) CreateZone(ctx context.Context, zone *domain.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}

func (m *WarehouseRepository) GetZone(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Zone), args.Error(1)
}

func (m *WarehouseRepository) ListZones(ctx context.Context, warehouseID uuid.UUID) ([]domain.Zone, error) {
	args := m.Called(ctx, warehouseID)
	return args.Get(0).([]domain.Zone), args.Error(1)
}
