package handler

import (
	"github.com/gofiber/fiber/v2"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/service/report"
)

type ReportHandler struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) GenerateInventory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	format := domain.ReportFormat(c.Query("format", string(domain.ReportCSV)))
	generated, err := h.reportService.GenerateInventoryReport(c.UserContext(), userID, format)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(generated)
}

func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.reportService.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
