package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-tracker/internal/api/dto"
	"github.com/spec-kit/complaint-tracker/internal/domain"
	"github.com/spec-kit/complaint-tracker/internal/service"
	apperrors "github.com/spec-kit/complaint-tracker/pkg/util"
)

// AdminComplaintsHandler handles admin triage endpoints.
type AdminComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewAdminComplaintsHandler constructs handler.
func NewAdminComplaintsHandler(complaintService *service.ComplaintService) *AdminComplaintsHandler {
	return &AdminComplaintsHandler{complaints: complaintService}
}

// ListAll handles GET /api/admin/complaints with optional status and
// priority query filters.
func (h *AdminComplaintsHandler) ListAll(c *fiber.Ctx) error {
	filter := service.AdminComplaintFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}

	complaints, err := h.complaints.ListAll(c.Context(), filter)
	if err != nil {
		return err
	}

	items := make([]dto.AdminComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewAdminComplaintResponse(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus handles PATCH /api/admin/complaints/:id.
func (h *AdminComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", map[string]any{"field": "status"})
	}

	complaint, err := h.complaints.UpdateStatus(c.Context(), c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Delete handles DELETE /api/admin/complaints/:id.
func (h *AdminComplaintsHandler) Delete(c *fiber.Ctx) error {
	if err := h.complaints.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{}})
}
