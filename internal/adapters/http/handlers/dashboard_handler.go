package handlers

import (
	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Client returns the current client's dashboard
// @Summary Client dashboard
// @Description Own totals, payments, loans and notifications (Clients only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/client [get]
func (h *DashboardHandler) Client(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetClientDashboard(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Dashboard data retrieved successfully", data)
}

// ClientPreview returns a client's dashboard as the client sees it
// @Summary Client dashboard preview
// @Description Managers view a client's dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /dashboard/clients/{id} [get]
func (h *DashboardHandler) ClientPreview(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetClientDashboard(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Dashboard data retrieved successfully", data)
}

// Manager returns the organization-wide dashboard
// @Summary Manager dashboard
// @Description Aggregated ledger, pending registrations and payments (Managers only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/manager [get]
func (h *DashboardHandler) Manager(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetManagerDashboard(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Dashboard data retrieved successfully", data)
}
