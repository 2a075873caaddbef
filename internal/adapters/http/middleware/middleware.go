package middleware

import (
	"errors"
	"strings"
	"time"

	"contribution-hub/internal/config"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	rateWindow   = time.Minute
	allowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	allowHeaders = "Origin,Content-Type,Accept,Authorization"
	logFormat    = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}"
)

// Setup installs the global middleware chain
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	// Gzip buffers whole responses, which would stall the change stream
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next:  isEventStream,
	}))

	app.Use(helmet.New(helmet.Config{
		XFrameOptions:    "SAMEORIGIN",
		ReferrerPolicy:   "strict-origin-when-cross-origin",
		PermissionPolicy: "geolocation=(), microphone=(), camera=()",
	}))

	app.Use(rateLimiter(100, "", "Too many requests"))
	app.Use(logger.New(loggerConfig(cfg)))
	app.Use(cors.New(corsConfig(cfg)))
}

func loggerConfig(cfg *config.Config) logger.Config {
	if cfg.IsDev() {
		return logger.Config{Format: logFormat + "\n"}
	}
	return logger.Config{
		Format:     logFormat + " | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// corsConfig allows any origin in dev; credentials need an explicit list
func corsConfig(cfg *config.Config) cors.Config {
	origins := cfg.GetAllowedOrigins()
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     allowMethods,
		AllowHeaders:     allowHeaders,
		AllowCredentials: origins != "*",
	}
}

func isEventStream(c *fiber.Ctx) bool {
	return strings.HasSuffix(c.Path(), "/events")
}

// rateLimiter allows limit requests per minute per client IP. Limiters with
// different suffixes keep separate counters.
func rateLimiter(limit int, suffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: rateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + suffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// AuthRateLimiter guards login and registration: 5 per minute per IP
func AuthRateLimiter() fiber.Handler {
	return rateLimiter(5, "-auth", "Too many login attempts")
}

// StrictRateLimiter guards password resets: 3 per minute per IP
func StrictRateLimiter() fiber.Handler {
	return rateLimiter(3, "-strict", "Rate limit exceeded")
}

// CustomErrorHandler renders errors that escape the handlers
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, message)
}
