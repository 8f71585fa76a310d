package domain

import (
	"time"

	"github.com/google/uuid"
)

type Warehouse struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Capacity  int       `json:"capacity" db:"capacity"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ZoneType string

const (
	ZoneStorage   ZoneType = "storage"
	ZonePicking   ZoneType = "picking"
	ZoneReceiving ZoneType = "receiving"
	ZoneShipping  ZoneType = "shipping"
)

func (t ZoneType) IsValid() bool {
	switch t {
	case ZoneStorage, ZonePicking, ZoneReceiving, ZoneShipping:
		return true
	default:
		return false
	}
}

type Zone struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Name        string    `json:"name" db:"name"`
	Type        ZoneType  `json:"type" db:"type"`
	Capacity    int       `json:"capacity" db:"capacity"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateWarehouseInput struct {
	Code     string  `json:"code" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Address  *string `json:"address,omitempty"`
	Capacity int     `json:"capacity" validate:"min=0"`
}

type CreateZoneInput struct {
	Name     string   `json:"name" validate:"required"`
	Type     ZoneType `json:"type" validate:"required"`
	Capacity int      `json:"capacity" validate:"min=0"`
}
