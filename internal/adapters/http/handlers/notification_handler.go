package handlers

import (
	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification and settings endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
	settingsService     *services.SettingsService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, settingsService *services.SettingsService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		settingsService:     settingsService,
	}
}

// SendNotificationRequest represents send notification request body
type SendNotificationRequest struct {
	RecipientID string `json:"recipient_id" example:"ALL"`
	Message     string `json:"message"`
}

// SettingsRequest represents settings request body
type SettingsRequest struct {
	AutomatedRemindersEnabled *bool `json:"automated_reminders_enabled"`
}

// Mine lists the current user's notifications
// @Summary My notifications
// @Description Notifications addressed to the current user or to ALL, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) Mine(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	notifications, err := h.notificationService.ForUser(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Notifications retrieved successfully", fiber.Map{
		"notifications": notifications,
	})
}

// Send sends a notification
// @Summary Send notification
// @Description Send a message to one user or to ALL (Managers only)
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendNotificationRequest true "Notification"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var req SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	notification, err := h.notificationService.Send(c.UserContext(), &services.SendInput{
		RecipientID: req.RecipientID,
		Message:     req.Message,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Notification sent", fiber.Map{
		"notification": notification,
	})
}

// GetSettings returns the global settings
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *NotificationHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Settings retrieved successfully", fiber.Map{
		"settings": settings,
	})
}

// UpdateSettings replaces the global settings
// @Summary Update settings
// @Description Toggle automated reminders (Managers only)
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SettingsRequest true "Settings"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /settings [put]
func (h *NotificationHandler) UpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.AutomatedRemindersEnabled == nil {
		return response.BadRequest(c, "automated_reminders_enabled is required")
	}

	current, err := h.settingsService.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	current.AutomatedRemindersEnabled = *req.AutomatedRemindersEnabled

	settings, err := h.settingsService.Update(c.UserContext(), current)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Settings updated", fiber.Map{
		"settings": settings,
	})
}
