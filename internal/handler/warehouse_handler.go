package handler

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/service/warehouse"
)

type WarehouseHandler struct {
	warehouseService warehouse.Service
}

func NewWarehouseHandler(warehouseService warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateWarehouseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Code == "" || input.Name == "" {
		return middleware.BadRequest("Code and name are required")
	}

	created, err := h.warehouseService.Create(c.UserContext(), userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	result, err := h.warehouseService.List(c.UserContext(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *WarehouseHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "warehouseId", "warehouse")
	if err != nil {
		return err
	}

	found, err := h.warehouseService.GetByID(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(found)
}

func (h *WarehouseHandler) CreateZone(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	warehouseID, err := paramUUID(c, "warehouseId", "warehouse")
	if err != nil {
		return err
	}

	var input domain.CreateZoneInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Name == "" {
		return middleware.BadRequest("Zone name is required")
	}

	zone, err := h.warehouseService.CreateZone(c.UserContext(), warehouseID, userID, input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(zone)
}

func (h *WarehouseHandler) ListZones(c *fiber.Ctx) error {
	warehouseID, err := paramUUID(c, "warehouseId", "warehouse")
	if err != nil {
		return err
	}

	zones, err := h.warehouseService.ListZones(c.UserContext(), warehouseID)
	if err != nil {
		return mapError(err)
	}
	if zones == nil {
		zones = []domain.Zone{}
	}

	return c.JSON(fiber.Map{"data": zones})
}
