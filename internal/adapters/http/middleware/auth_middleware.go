package middleware

import (
	"context"
	"errors"
	"strings"

	"contribution-hub/internal/config"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/pkg/jwt"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthMiddleware
const (
	LocalUserID     = "userID"
	LocalMembNo     = "membNo"
	LocalName       = "name"
	LocalRole       = "role"
	LocalFirstLogin = "firstLogin"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return authenticate(cfg, false)
}

// StreamAuth is AuthMiddleware that also accepts ?token= for EventSource
// clients, which cannot set headers
func StreamAuth(cfg *config.Config) fiber.Handler {
	return authenticate(cfg, true)
}

func authenticate(cfg *config.Config, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Cookie, 2. Authorization header, 3. query (streams only)
		accessToken := c.Cookies("access_token")

		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken == "" && allowQuery {
			accessToken = c.Query("token")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalMembNo, claims.MembNo)
		c.Locals(LocalName, claims.Name)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalFirstLogin, claims.FirstLogin)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == string(allowedRole) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// ManagersOnly allows ADMIN1 and ADMIN2
func ManagersOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleManagerPrimary, domain.RoleManagerSecondary)
}

// ClientsOnly allows CLIENT
func ClientsOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleClient)
}

// RequirePasswordChanged blocks tokens issued before the first password change
func RequirePasswordChanged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if first, _ := c.Locals(LocalFirstLogin).(bool); first {
			return response.Forbidden(c, "Password change required")
		}
		return c.Next()
	}
}

// AccountChecker reports whether a token's user may still use the API
type AccountChecker interface {
	CheckActive(ctx context.Context, userID string) error
}

// ActiveAccount re-reads the user behind the token, so a rejection or
// deletion takes effect before the token expires
func ActiveAccount(checker AccountChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if err := checker.CheckActive(c.UserContext(), userID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return response.Unauthorized(c, "Account no longer exists")
			}
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(LocalUserID).(string)
	return id, ok && id != ""
}
