package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Product      *ProductHandler
	Order        *OrderHandler
	Warehouse    *WarehouseHandler
	Report       *ReportHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Product:      NewProductHandler(services.Inventory),
		Order:        NewOrderHandler(services.Order),
		Warehouse:    NewWarehouseHandler(services.Warehouse),
		Report:       NewReportHandler(services.Report),
		Notification: NewNotificationHandler(services.Notifications),
	}
}

var domainErrors = []struct {
	err    error
	status int
}{
	{domain.ErrProductNotFound, fiber.StatusNotFound},
	{domain.ErrOrderNotFound, fiber.StatusNotFound},
	{domain.ErrWarehouseNotFound, fiber.StatusNotFound},
	{domain.ErrZoneNotFound, fiber.StatusNotFound},
	{domain.ErrSKUExists, fiber.StatusConflict},
	{domain.ErrWarehouseCodeTaken, fiber.StatusConflict},
	{domain.ErrInsufficientStock, fiber.StatusConflict},
	{domain.ErrInvalidTransition, fiber.StatusConflict},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest},
	{domain.ErrEmptyOrder, fiber.StatusBadRequest},
	{domain.ErrInvalidZoneType, fiber.StatusBadRequest},
	{domain.ErrUnsupportedFormat, fiber.StatusBadRequest},
	{domain.ErrInvalidNotification, fiber.StatusBadRequest},
}

// mapError turns domain sentinels into HTTP errors. Anything else passes
// through to the error handler as an internal error.
func mapError(err error) error {
	for _, e := range domainErrors {
		if errors.Is(err, e.err) {
			return middleware.NewError(e.status, capitalize(err.Error()))
		}
	}
	return err
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func paramUUID(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}
