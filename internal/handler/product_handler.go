package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/repository"
	"warehouse-manager/internal/service/inventory"
)

type ProductHandler struct {
	inventoryService inventory.Service
}

func NewProductHandler(inventoryService inventory.Service) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.SKU == "" || input.Name == "" {
		return middleware.BadRequest("SKU and name are required")
	}

	product, err := h.inventoryService.Create(c.UserContext(), userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		LowStock: c.QueryBool("low_stock", false),
		Search:   c.Query("search"),
	}
	if raw := c.Query("warehouse_id"); raw != "" {
		warehouseID, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid warehouse ID")
		}
		filter.WarehouseID = &warehouseID
	}

	result, err := h.inventoryService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	product, err := h.inventoryService.GetByID(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	var input domain.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	product, err := h.inventoryService.Update(c.UserContext(), id, userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	if err := h.inventoryService.Delete(c.UserContext(), id, userID); err != nil {
		return mapError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	var input domain.AdjustStockInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	product, err := h.inventoryService.AdjustStock(c.UserContext(), id, userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(product)
}

func (h *ProductHandler) ListMovements(c *fiber.Ctx) error {
	id, err := paramUUID(c, "productId", "product")
	if err != nil {
		return err
	}

	result, err := h.inventoryService.ListMovements(c.UserContext(), id, getPaginationParams(c))
	if err != nil {
		return mapError(err)
	}

	return c.JSON(result)
}
