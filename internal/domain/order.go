package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	OrderNumber  string      `json:"order_number" db:"order_number"`
	CustomerName string      `json:"customer_name" db:"customer_name"`
	Status       OrderStatus `json:"status" db:"status"`
	Total        float64     `json:"total" db:"total"`
	Notes        *string     `json:"notes,omitempty" db:"notes"`
	CreatedBy    uuid.UUID   `json:"created_by" db:"created_by"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
	Items        []OrderItem `json:"items" db:"-"`
}

type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
}

type CreateOrderInput struct {
	CustomerName string                 `json:"customer_name" validate:"required"`
	Notes        *string                `json:"notes,omitempty"`
	Items        []CreateOrderItemInput `json:"items" validate:"required,min=1"`
}

type CreateOrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" validate:"required"`
}
