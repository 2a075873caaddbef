package services

import (
	"contribution-hub/internal/config"
)

// Container holds one instance of every service, shared by the HTTP routes
// and the cron scheduler
type Container struct {
	UoW           *UnitOfWork
	Ledger        *LedgerService
	Auth          *AuthService
	Users         *UserService
	Payments      *PaymentService
	Notifications *NotificationService
	Settings      *SettingsService
	Dashboard     *DashboardService
}

// NewContainer wires all services over a single unit of work
func NewContainer(uow *UnitOfWork, cfg *config.Config) *Container {
	ledger := NewLedgerService(uow, cfg.Ledger.AccrualCatchUp)

	return &Container{
		UoW:           uow,
		Ledger:        ledger,
		Auth:          NewAuthService(uow, cfg),
		Users:         NewUserService(uow),
		Payments:      NewPaymentService(uow),
		Notifications: NewNotificationService(uow, cfg.Ledger.DueSoonDays),
		Settings:      NewSettingsService(uow),
		Dashboard:     NewDashboardService(uow, ledger),
	}
}

// Scheduler builds the cron jobs on top of the shared ledger and
// notification services
func (c *Container) Scheduler(accrualSpec, reminderSpec string) (*CronService, error) {
	return NewCronService(c.Ledger, c.Notifications, accrualSpec, reminderSpec)
}
