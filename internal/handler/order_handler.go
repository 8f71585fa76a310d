package handler

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/service/order"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.CustomerName == "" {
		return middleware.BadRequest("Customer name is required")
	}

	created, err := h.orderService.Create(c.UserContext(), userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	var status *domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.OrderStatus(raw)
		if !s.IsValid() {
			return middleware.BadRequest("Invalid order status")
		}
		status = &s
	}

	result, err := h.orderService.List(c.UserContext(), status, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "orderId", "order")
	if err != nil {
		return err
	}

	found, err := h.orderService.GetByID(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(found)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "orderId", "order")
	if err != nil {
		return err
	}

	var input domain.UpdateOrderStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.orderService.UpdateStatus(c.UserContext(), id, userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(updated)
}
