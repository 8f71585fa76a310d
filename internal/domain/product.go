package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	WarehouseID  *uuid.UUID `json:"warehouse_id,omitempty" db:"warehouse_id"`
	ZoneID       *uuid.UUID `json:"zone_id,omitempty" db:"zone_id"`
	SKU          string     `json:"sku" db:"sku"`
	Name         string     `json:"name" db:"name"`
	Description  *string    `json:"description,omitempty" db:"description"`
	Quantity     int        `json:"quantity" db:"quantity"`
	ReorderLevel int        `json:"reorder_level" db:"reorder_level"`
	UnitPrice    float64    `json:"unit_price" db:"unit_price"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the quantity has reached the reorder level.
func (p *Product) IsLowStock() bool {
	return p.ReorderLevel > 0 && p.Quantity <= p.ReorderLevel
}

type CreateProductInput struct {
	WarehouseID  *uuid.UUID `json:"warehouse_id,omitempty"`
	ZoneID       *uuid.UUID `json:"zone_id,omitempty"`
	SKU          string     `json:"sku" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	Description  *string    `json:"description,omitempty"`
	Quantity     int        `json:"quantity" validate:"min=0"`
	ReorderLevel int        `json:"reorder_level" validate:"min=0"`
	UnitPrice    float64    `json:"unit_price" validate:"min=0"`
}

type UpdateProductInput struct {
	WarehouseID  *uuid.UUID `json:"warehouse_id,omitempty"`
	ZoneID       *uuid.UUID `json:"zone_id,omitempty"`
	Name         *string    `json:"name,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ReorderLevel *int       `json:"reorder_level,omitempty" validate:"omitempty,min=0"`
	UnitPrice    *float64   `json:"unit_price,omitempty" validate:"omitempty,min=0"`
}

type AdjustStockInput struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason,omitempty"`
}
