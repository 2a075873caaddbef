package routes

import (
	"contribution-hub/internal/adapters/http/handlers"
	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *services.Container, notifier repositories.ChangeNotifier, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(svc.UoW.Store(), cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Users, cfg)
	userHandler := handlers.NewUserHandler(svc.Users)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments, svc.Ledger)
	loanHandler := handlers.NewLoanHandler(svc.Ledger)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, svc.Settings)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	eventHandler := handlers.NewEventHandler(notifier)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Change stream (EventSource cannot send headers)
	apiV1.Get("/events", middleware.StreamAuth(cfg), eventHandler.Stream)

	// Auth routes
	// Rejected or deleted accounts lose access even with an unexpired token
	active := middleware.ActiveAccount(svc.Auth)

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg, active)

	// Own inbox stays readable while a password change is pending
	apiV1.Get("/notifications", middleware.AuthMiddleware(cfg), active, notificationHandler.Mine)

	// Everything below requires a token whose first-login flag is cleared
	protected := apiV1.Group("", middleware.AuthMiddleware(cfg), active, middleware.RequirePasswordChanged())

	setupUserRoutes(protected.Group("/users", middleware.ManagersOnly()), userHandler)
	setupPaymentRoutes(protected.Group("/payments"), paymentHandler)
	setupLoanRoutes(protected.Group("/loans", middleware.ManagersOnly()), loanHandler)
	setupNotificationRoutes(protected.Group("/notifications", middleware.ManagersOnly()), notificationHandler)
	setupSettingsRoutes(protected.Group("/settings"), notificationHandler)
	setupDashboardRoutes(protected.Group("/dashboard", middleware.NoCacheHeaders()), dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config, active fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/logout", handler.Logout)

	// Reachable while a password change is still pending
	router.Get("/me", middleware.AuthMiddleware(cfg), active, handler.Me)
	router.Put("/password", middleware.AuthMiddleware(cfg), active, handler.ChangePassword)
}

// setupUserRoutes configures user management routes (Managers only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Post("/:id/approve", handler.Approve)
	router.Post("/:id/reject", handler.Reject)
	router.Post("/:id/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)
	router.Delete("/:id", handler.Delete)
}

// setupPaymentRoutes configures payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	// Client routes
	router.Post("/", middleware.ClientsOnly(), handler.Submit)
	router.Get("/my", middleware.ClientsOnly(), handler.My)

	// Manager routes
	router.Get("/", middleware.ManagersOnly(), handler.List)
	router.Get("/:id", middleware.ManagersOnly(), handler.Get)
	router.Put("/:id/status", middleware.ManagersOnly(), handler.UpdateStatus)
}

// setupLoanRoutes configures loan routes (Managers only)
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Issue)
	router.Post("/accrue", handler.Accrue)
}

// setupNotificationRoutes configures notification routes (Managers only)
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Post("/", handler.Send)
}

// setupSettingsRoutes configures settings routes
func setupSettingsRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.GetSettings)
	router.Put("/", middleware.ManagersOnly(), handler.UpdateSettings)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/client", middleware.ClientsOnly(), handler.Client)
	router.Get("/manager", middleware.ManagersOnly(), handler.Manager)
	router.Get("/clients/:id", middleware.ManagersOnly(), handler.ClientPreview)
}
