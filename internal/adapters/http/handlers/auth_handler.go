package handlers

import (
	"strings"
	"time"

	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	MembNo   string `json:"memb_no"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// Register handles client registration
// @Summary Register new client
// @Description Submit a registration; a manager approves it and assigns a member number
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Register(c.UserContext(), &services.RegisterInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Registration submitted, awaiting manager approval", fiber.Map{
		"id":     user.ID,
		"status": user.Status,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with member number and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.MembNo) == "" {
		return response.BadRequest(c, "Member number is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		MembNo:   strings.TrimSpace(req.MembNo),
		Password: req.Password,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":             result.AccessToken,
		"user":                     result.User,
		"password_change_required": result.User.IsFirstLogin,
	})
}

// ChangePassword handles the user's own password change
// @Summary Change password
// @Description Set a new password; clears the first-login flag and reissues the token
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.ChangePassword(c.UserContext(), userID, &services.ChangePasswordInput{
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Password updated", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear the access token cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the currently authenticated user's information
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
