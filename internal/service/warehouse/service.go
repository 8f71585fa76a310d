package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateWarehouseInput) (*domain.Warehouse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Warehouse], error)
	CreateZone(ctx context.Context, warehouseID uuid.UUID, userID uuid.UUID, input domain.CreateZoneInput) (*domain.Zone, error)
	ListZones(ctx context.Context, warehouseID uuid.UUID) ([]domain.Zone, error)
	SetNotifier(notifier notification.Notifier)
}

type service struct {
	warehouseRepo repository.WarehouseRepository
	notifier      notification.Notifier
}

func NewService(warehouseRepo repository.WarehouseRepository) Service {
	return &service{warehouseRepo: warehouseRepo}
}

func (s *service) SetNotifier(notifier notification.Notifier) {
	s.notifier = notifier
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateWarehouseInput) (*domain.Warehouse, error) {
	if input.Capacity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	exists, err := s.warehouseRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrWarehouseCodeTaken
	}

	warehouse := &domain.Warehouse{
		ID:        uuid.New(),
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		Address:   input.Address,
		Capacity:  input.Capacity,
		CreatedBy: userID,
	}

	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifSuccess,
		i18n.T("warehouse_created_title"), i18n.T("warehouse_created_message", warehouse.Name, warehouse.Code),
		domain.EmitOptions{Category: domain.CategoryWarehouse})

	return warehouse, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	return warehouse, nil
}

func (s *service) List(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Warehouse], error) {
	params.Validate()
	warehouses, total, err := s.warehouseRepo.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Warehouse]{}, err
	}
	return domain.NewPaginatedResponse(warehouses, params, total), nil
}

func (s *service) CreateZone(ctx context.Context, warehouseID uuid.UUID, userID uuid.UUID, input domain.CreateZoneInput) (*domain.Zone, error) {
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidZoneType
	}
	if input.Capacity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	warehouse, err := s.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	zone := &domain.Zone{
		ID:          uuid.New(),
		WarehouseID: warehouse.ID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		Capacity:    input.Capacity,
	}

	if err := s.warehouseRepo.CreateZone(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifSuccess,
		i18n.T("zone_created_title"), i18n.T("zone_created_message", zone.Name, warehouse.Name),
		domain.EmitOptions{Category: domain.CategoryWarehouse, Priority: domain.PriorityLow})

	return zone, nil
}

func (s *service) ListZones(ctx context.Context, warehouseID uuid.UUID) ([]domain.Zone, error) {
	if _, err := s.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.warehouseRepo.ListZones(ctx, warehouseID)
}
