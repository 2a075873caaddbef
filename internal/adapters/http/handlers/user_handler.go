package handlers

import (
	"strings"

	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/adapters/persistence/models"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles manager-side user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ApproveRequest represents approve request body
type ApproveRequest struct {
	MembNo       string `json:"memb_no"`
	TempPassword string `json:"temp_password"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// List lists users
// @Summary List users
// @Description List users, optionally filtered by status (Managers only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	status := domain.UserStatus(strings.ToUpper(c.Query("status")))

	users, err := h.userService.List(c.UserContext(), status)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users": models.NewUserResponses(users),
	})
}

// Approve approves a pending registration
// @Summary Approve registration
// @Description Assign a member number and temporary password (Managers only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body ApproveRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id}/approve [post]
func (h *UserHandler) Approve(c *fiber.Ctx) error {
	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Approve(c.UserContext(), c.Params("id"), &services.ApproveInput{
		MembNo:       req.MembNo,
		TempPassword: req.TempPassword,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User approved", fiber.Map{
		"user": models.NewUserResponse(*user),
	})
}

// Reject rejects a user
// @Summary Reject user
// @Description Reject a registration or deactivate a client (Managers only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/reject [post]
func (h *UserHandler) Reject(c *fiber.Ctx) error {
	user, err := h.userService.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User rejected", fiber.Map{
		"user": models.NewUserResponse(*user),
	})
}

// Delete deletes a user and their payments and loans
// @Summary Delete user
// @Description Delete a user together with their payments and loans (Managers only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.userService.Delete(c.UserContext(), actorID, c.Params("id")); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User deleted", nil)
}

// ResetPassword resets a user's password
// @Summary Reset password
// @Description Set a temporary password; the user must change it on next login (Managers only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body ResetPasswordRequest true "Temporary password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.userService.ResetPassword(c.UserContext(), c.Params("id"), &services.ResetPasswordInput{
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Password reset", nil)
}
