package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/adapters/http/routes"
	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "contribution-hub/docs" // Swagger docs
)

// @title Contribution Hub API
// @version 1.0
// @description Member contributions, savings and loans ledger API

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the ledger store backend
	kv, notifier, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer kv.Close()
	defer notifier.Close()

	store := repositories.NewLedgerStore(kv, notifier, cfg.Store.KeyPrefix)

	// Seed managers on an empty store
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.NewSeeder(store, cfg).Run(seedCtx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed managers: %v", err)
	}
	cancel()

	svc := services.NewContainer(services.NewUnitOfWork(store), cfg)

	// Start cron jobs for interest accrual and reminders
	cronService, err := svc.Scheduler(cfg.Ledger.AccrualCron, cfg.Ledger.ReminderCron)
	if err != nil {
		log.Fatalf("❌ Failed to schedule cron jobs: %v", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Bring overdue loans up to date before serving
	cronService.RunAccrual()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Contribution Hub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, notifier, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, STORE: %s]", cfg.Port, cfg.AppMode, cfg.Store.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStore connects the configured key-value backend and its change feed
func openStore(cfg *config.Config) (repositories.KeyValueRepository, repositories.ChangeNotifier, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		return repositories.NewMemoryKeyValueRepository(), repositories.NewMemoryChangeNotifier(), nil

	case config.StoreRedis:
		client, err := config.ConnectRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisKeyValueRepository(client),
			repositories.NewRedisChangeNotifier(client, cfg.Redis.SyncChannel), nil

	case config.StoreMySQL:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewGormKeyValueRepository(db), repositories.NewMemoryChangeNotifier(), nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
