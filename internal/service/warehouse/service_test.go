package warehouse

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/mocks"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("normalizes code and notifies", func(t *testing.T) {
		repo := new(mocks.WarehouseRepository)
		notifier := new(mocks.Notifier)
		svc := NewService(repo)
		svc.SetNotifier(notifier)

		repo.On("ExistsByCode", ctx, "WH-EAST").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Warehouse")).Return(nil)
		notifier.On("Notify", ctx, userID, domain.NotifSuccess, mock.Anything, mock.Anything, mock.MatchedBy(func(opts domain.EmitOptions) bool {
			return opts.Category == domain.CategoryWarehouse
		})).Return(&domain.Notification{}, nil).Once()

		warehouse, err := svc.Create(ctx, userID, domain.CreateWarehouseInput{Code: " wh-east", Name: "East", Capacity: 500})

		require.NoError(t, err)
		assert.Equal(t, "WH-EAST", warehouse.Code)
		notifier.AssertExpectations(t)
	})

	t.Run("code taken", func(t *testing.T) {
		repo := new(mocks.WarehouseRepository)
		svc := NewService(repo)
		repo.On("ExistsByCode", ctx, "WH-EAST").Return(true, nil)

		_, err := svc.Create(ctx, userID, domain.CreateWarehouseInput{Code: "WH-EAST", Name: "East"})
		assert.ErrorIs(t, err, domain.ErrWarehouseCodeTaken)
	})
}

func TestCreateZone(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	warehouseID := uuid.New()

	t.Run("invalid type", func(t *testing.T) {
		svc := NewService(new(mocks.WarehouseRepository))
		_, err := svc.CreateZone(ctx, warehouseID, userID, domain.CreateZoneInput{Name: "A1", Type: "attic"})
		assert.ErrorIs(t, err, domain.ErrInvalidZoneType)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		repo := new(mocks.WarehouseRepository)
		svc := NewService(repo)
		repo.On("GetByID", ctx, warehouseID).Return(nil, nil)

		_, err := svc.CreateZone(ctx, warehouseID, userID, domain.CreateZoneInput{Name: "A1", Type: domain.ZonePicking})
		assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
	})

	t.Run("success", func(t *testing.T) {
		repo := new(mocks.WarehouseRepository)
		svc := NewService(repo)
		repo.On("GetByID", ctx, warehouseID).Return(&domain.Warehouse{ID: warehouseID, Name: "East"}, nil)
		repo.On("CreateZone", ctx, mock.AnythingOfType("*domain.Zone")).Return(nil)

		zone, err := svc.CreateZone(ctx, warehouseID, userID, domain.CreateZoneInput{Name: " A1 ", Type: domain.ZoneStorage, Capacity: 40})

		require.NoError(t, err)
		assert.Equal(t, "A1", zone.Name)
		assert.Equal(t, warehouseID, zone.WarehouseID)
	})
}

func TestListZones(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.WarehouseRepository)
	svc := NewService(repo)
	warehouseID := uuid.New()
	repo.On("GetByID", ctx, warehouseID).Return(&domain.Warehouse{ID: warehouseID}, nil)
	repo.On("ListZones", ctx, warehouseID).Return([]domain.Zone{{Name: "A1"}, {Name: "B1"}}, nil)

	zones, err := svc.ListZones(ctx, warehouseID)

	require.NoError(t, err)
	assert.Len(t, zones, 2)
}
