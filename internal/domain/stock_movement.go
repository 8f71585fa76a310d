package domain

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records one manual quantity change of a product.
type StockMovement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ProductID     uuid.UUID `json:"product_id" db:"product_id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	UserName      *string   `json:"user_name,omitempty" db:"user_name"`
	Delta         int       `json:"delta" db:"delta"`
	QuantityAfter int       `json:"quantity_after" db:"quantity_after"`
	Reason        *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
