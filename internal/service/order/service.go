package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateOrderStatusInput) (*domain.Order, error)
	SetNotifier(notifier notification.Notifier)
}

// StockChecker raises stock level alerts for a product after its quantity changed.
type StockChecker interface {
	CheckStockLevel(ctx context.Context, userID uuid.UUID, product *domain.Product)
}

type service struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	stock       StockChecker
	notifier    notification.Notifier
}

func NewService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, stock StockChecker) Service {
	return &service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stock:       stock,
	}
}

func (s *service) SetNotifier(notifier notification.Notifier) {
	s.notifier = notifier
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	lines, err := mergeLines(input.Items)
	if err != nil {
		return nil, err
	}

	customer := strings.TrimSpace(input.CustomerName)
	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: customer,
		Status:       domain.OrderPending,
		Notes:        input.Notes,
		CreatedBy:    userID,
	}

	remaining := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			s.notifyFailed(ctx, userID, customer, domain.ErrProductNotFound)
			return nil, domain.ErrProductNotFound
		}
		if product.Quantity < line.Quantity {
			err := fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.SKU)
			s.notifyFailed(ctx, userID, customer, err)
			return nil, err
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice,
		})
		order.Total += product.UnitPrice * float64(line.Quantity)

		after := *product
		after.Quantity -= line.Quantity
		remaining = append(remaining, after)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.notifyFailed(ctx, userID, customer, err)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	notification.Dispatch(ctx, s.notifier, userID, domain.NotifSuccess,
		i18n.T("order_created_title"), i18n.T("order_created_message", order.OrderNumber, customer, len(order.Items)),
		domain.EmitOptions{Category: domain.CategoryOrders})

	if s.stock != nil {
		for i := range remaining {
			s.stock.CheckStockLevel(ctx, userID, &remaining[i])
		}
	}

	return order, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *service) List(ctx context.Context, status *domain.OrderStatus, params domain.PaginationParams) (domain.PaginatedResponse[domain.Order], error) {
	params.Validate()
	orders, total, err := s.orderRepo.List(ctx, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Order]{}, err
	}
	return domain.NewPaginatedResponse(orders, params, total), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, input domain.UpdateOrderStatusInput) (*domain.Order, error) {
	if !input.Status.IsValid() {
		return nil, domain.ErrInvalidTransition
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, input.Status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if input.Status == domain.OrderCancelled {
		notification.Dispatch(ctx, s.notifier, userID, domain.NotifWarning,
			i18n.T("order_cancelled_title"), i18n.T("order_cancelled_message", order.OrderNumber),
			domain.EmitOptions{Category: domain.CategoryOrders, Priority: domain.PriorityHigh})
	} else {
		notification.Dispatch(ctx, s.notifier, userID, domain.NotifInfo,
			i18n.T("order_status_title"), i18n.T("order_status_message", order.OrderNumber, string(input.Status)),
			domain.EmitOptions{Category: domain.CategoryOrders, Priority: domain.PriorityLow})
	}

	return order, nil
}

func (s *service) notifyFailed(ctx context.Context, userID uuid.UUID, customer string, cause error) {
	notification.Dispatch(ctx, s.notifier, userID, domain.NotifError,
		i18n.T("order_failed_title"), i18n.T("order_failed_message", customer, cause.Error()),
		domain.EmitOptions{Category: domain.CategoryOrders, Priority: domain.PriorityHigh})
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(items []domain.CreateOrderItemInput) ([]domain.CreateOrderItemInput, error) {
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]domain.CreateOrderItemInput, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, item)
	}
	return lines, nil
}
