package domain

import "errors"

var (
	ErrInvalidNotification = errors.New("invalid notification")

	ErrProductNotFound    = errors.New("product not found")
	ErrSKUExists          = errors.New("sku already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrWarehouseNotFound  = errors.New("warehouse not found")
	ErrWarehouseCodeTaken = errors.New("warehouse code already exists")
	ErrZoneNotFound       = errors.New("zone not found")
	ErrInvalidZoneType    = errors.New("invalid zone type")
	ErrUnsupportedFormat  = errors.New("unsupported report format")
)
