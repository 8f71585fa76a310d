package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	List(ctx context.Context, filter repository.ProductFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error)
	AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.AdjustStockInput) (*domain.Product, error)
	ListMovements(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.StockMovement], error)
	CheckStockLevel(ctx context.Context, userID uuid.UUID, product *domain.Product)
	SetNotifier(notifier notification.Notifier)
}

type service struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	movementRepo  repository.StockMovementRepository
	notifier      notification.Notifier
}

func NewService(productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository, movementRepo repository.StockMovementRepository) Service {
	return &service{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		movementRepo:  movementRepo,
	}
}

func (s *service) SetNotifier(notifier notification.Notifier) {
	s.notifier = notifier
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error) {
	if input.Quantity < 0 || input.ReorderLevel < 0 || input.UnitPrice < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrSKUExists
	}

	if err := s.checkLocation(ctx, input.WarehouseID, input.ZoneID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:           uuid.New(),
		WarehouseID:  input.WarehouseID,
		ZoneID:       input.ZoneID,
		SKU:          sku,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		UnitPrice:    input.UnitPrice,
		CreatedBy:    userID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifSuccess,
		i18n.T("product_created_title"), i18n.T("product_created_message", product.Name, product.SKU),
		domain.EmitOptions{Category: domain.CategoryInventory, Priority: domain.PriorityLow})

	return product, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	warehouseID, zoneID := product.WarehouseID, product.ZoneID
	if input.WarehouseID != nil {
		warehouseID = input.WarehouseID
	}
	if input.ZoneID != nil {
		zoneID = input.ZoneID
	}
	if input.WarehouseID != nil || input.ZoneID != nil {
		if err := s.checkLocation(ctx, warehouseID, zoneID); err != nil {
			return nil, err
		}
	}
	product.WarehouseID = warehouseID
	product.ZoneID = zoneID

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product.ReorderLevel = *input.ReorderLevel
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product.UnitPrice = *input.UnitPrice
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifInfo,
		i18n.T("product_updated_title"), i18n.T("product_updated_message", product.Name),
		domain.EmitOptions{Category: domain.CategoryInventory, Priority: domain.PriorityLow})

	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifWarning,
		i18n.T("product_deleted_title"), i18n.T("product_deleted_message", product.Name),
		domain.EmitOptions{Category: domain.CategoryInventory})

	return nil
}

func (s *service) List(ctx context.Context, filter repository.ProductFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Product], error) {
	params.Validate()
	products, total, err := s.productRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Product]{}, err
	}
	return domain.NewPaginatedResponse(products, params, total), nil
}

// AdjustStock applies a signed quantity change. The stock category notification
// it raises is dropped by the notification policy; only the low and out of
// stock alerts reach the user.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.AdjustStockInput) (*domain.Product, error) {
	if input.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.productRepo.AdjustQuantity(ctx, id, input.Delta)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	s.recordMovement(ctx, userID, product, input)

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifInfo,
		i18n.T("stock_adjusted_title"), i18n.T("stock_adjusted_message", input.Delta, product.Name, product.Quantity),
		domain.EmitOptions{Category: domain.CategoryStock, Priority: domain.PriorityLow})

	if input.Delta < 0 {
		s.CheckStockLevel(ctx, userID, product)
	}

	return product, nil
}

// recordMovement appends to the stock ledger. The quantity change is already
// committed, so a failed write is logged only.
func (s *service) recordMovement(ctx context.Context, userID uuid.UUID, product *domain.Product, input domain.AdjustStockInput) {
	movement := &domain.StockMovement{
		ID:            uuid.New(),
		ProductID:     product.ID,
		UserID:        userID,
		Delta:         input.Delta,
		QuantityAfter: product.Quantity,
	}
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		movement.Reason = &reason
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		log.Warn().Err(err).
			Str("product_id", product.ID.String()).
			Int("delta", input.Delta).
			Msg("failed to record stock movement")
	}
}

func (s *service) ListMovements(ctx context.Context, productID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.StockMovement], error) {
	if _, err := s.GetByID(ctx, productID); err != nil {
		return domain.PaginatedResponse[domain.StockMovement]{}, err
	}

	params.Validate()
	movements, total, err := s.movementRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.StockMovement]{}, err
	}
	return domain.NewPaginatedResponse(movements, params, total), nil
}

// CheckStockLevel raises an out of stock error at zero units and a low stock
// warning at or below the reorder level.
func (s *service) CheckStockLevel(ctx context.Context, userID uuid.UUID, product *domain.Product) {
	switch {
	case product.Quantity == 0:
		notification.Dispatch(ctx, s.notifier, userID, domain.NotifError,
			i18n.T("out_of_stock_title"), i18n.T("out_of_stock_message", product.Name),
			domain.EmitOptions{Category: domain.CategoryInventory, Priority: domain.PriorityCritical})
	case product.IsLowStock():
		notification.Dispatch(ctx, s.notifier, userID, domain.NotifWarning,
			i18n.T("low_stock_title"), i18n.T("low_stock_message", product.Name, product.Quantity, product.ReorderLevel),
			domain.EmitOptions{Category: domain.CategoryInventory, Priority: domain.PriorityHigh})
	}
}

func (s *service) checkLocation(ctx context.Context, warehouseID, zoneID *uuid.UUID) error {
	if warehouseID != nil {
		warehouse, err := s.warehouseRepo.GetByID(ctx, *warehouseID)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.ErrWarehouseNotFound
		}
	}

	if zoneID != nil {
		zone, err := s.warehouseRepo.GetZone(ctx, *zoneID)
		if err != nil {
			return err
		}
		if zone == nil || (warehouseID != nil && zone.WarehouseID != *warehouseID) {
			return domain.ErrZoneNotFound
		}
	}

	return nil
}
