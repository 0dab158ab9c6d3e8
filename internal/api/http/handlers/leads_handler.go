package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/orta-study/crm-backend/internal/api/dto"
	"github.com/orta-study/crm-backend/internal/auth"
	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/service"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

// LeadsHandler exposes the lead lifecycle endpoints.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// CreateLead POST /api/leads. Public.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.service.CreateLead(c.UserContext(), auth.ActorFromContext(c), service.LeadCreateInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}

// ListLeads GET /api/leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	var filter service.LeadListFilter
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		s := domain.LeadStatus(status)
		filter.Status = &s
	}
	if assignee := strings.TrimSpace(c.Query("assigned_to")); assignee != "" {
		filter.AssignedTo = &assignee
	}

	leads, err := h.service.ListLeads(c.UserContext(), auth.ActorFromContext(c), filter)
	if err != nil {
		return err
	}
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, dto.NewLeadResponse(&leads[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetLead GET /api/leads/:id.
func (h *LeadsHandler) GetLead(c *fiber.Ctx) error {
	lead, err := h.service.GetLead(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}

// UpdateLead PATCH /api/leads/:id.
func (h *LeadsHandler) UpdateLead(c *fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	lead, err := h.service.UpdateLead(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(lead)})
}

// DeleteLead DELETE /api/leads/:id.
func (h *LeadsHandler) DeleteLead(c *fiber.Ctx) error {
	if err := h.service.DeleteLead(c.UserContext(), auth.ActorFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "lead deleted"}})
}
