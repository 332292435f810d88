package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"medical-record-service/internal/domain/dtos"
	"medical-record-service/internal/services"
)

type ReportHandler struct {
	reportService services.ReportServiceContract
	logger        *logrus.Logger
}

func NewReportHandler(rs services.ReportServiceContract, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{reportService: rs, logger: logger}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dtos.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request: " + err.Error()})
	}
	if req.ReportNumber == "" || req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "report_number, title and content are required"})
	}
	report, err := h.reportService.CreateReport(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	var req dtos.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not parse request: " + err.Error()})
	}
	report, err := h.reportService.UpdateReport(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	report, err := h.reportService.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted")
	reports, err := h.reportService.ListReports(c.UserContext(), includeDeleted)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	if err := h.reportService.DeleteReport(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ReportHandler) ListVersions(c *fiber.Ctx) error {
	versions, err := h.reportService.ListVersions(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(versions)
}

func RegisterReportRoutes(api fiber.Router, h *ReportHandler) {
	reports := api.Group("/reports")
	reports.Post("/", h.Create)
	reports.Get("/", h.List)
	reports.Get("/:id", h.Get)
	reports.Put("/:id", h.Update)
	reports.Delete("/:id", h.Delete)
	reports.Get("/:id/versions", h.ListVersions)
}
