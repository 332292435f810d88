package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"medical-record-service/internal/actor"
	"medical-record-service/internal/softdelete"
	"medical-record-service/internal/storage"
	"medical-record-service/internal/versioning"
)

// AdminHandler exposes the recovery surface over soft-deleted rows. The
// hard-delete route is destructive and must stay behind the same privileged
// gate as the rest of the admin group.
type AdminHandler struct {
	admin  *softdelete.AdminService
	logger *logrus.Logger
}

func NewAdminHandler(admin *softdelete.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

func (h *AdminHandler) ListDeleted(c *fiber.Ctx) error {
	rows, err := h.admin.ListDeleted(c.UserContext(), c.Params("entity"))
	if err != nil {
		return respondError(c, err)
	}
	if rows == nil {
		rows = []storage.Record{}
	}
	return c.JSON(rows)
}

func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	restored, err := h.admin.Restore(c.UserContext(), c.Params("entity"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(restored)
}

func (h *AdminHandler) HardDelete(c *fiber.Ctx) error {
	_, err := h.admin.HardDelete(c.UserContext(), c.Params("entity"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Record permanently deleted"})
}

// RegisterAdminRoutes mounts the recovery endpoints. They are declared after
// the report routes so /api/reports/... keeps precedence over the entity
// wildcards.
func RegisterAdminRoutes(api fiber.Router, h *AdminHandler) {
	api.Get("/:entity/deleted", h.ListDeleted)
	api.Post("/:entity/:id/restore", h.Restore)
	api.Post("/:entity/:id/hard-delete", h.HardDelete)
}

// respondError maps the pipeline's error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrUnknownEntity):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entity not found"})
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	case errors.Is(err, actor.ErrNoActor):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Acting identity required"})
	case errors.Is(err, versioning.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Concurrent modification, retry the request"})
	case errors.Is(err, storage.ErrDuplicateKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
