package services

import (
	"context"
)

// Note: each service implementation lives in its own *_service.go file

// InterestAccruer is the part of LedgerService the scheduler and the
// dashboards depend on
type InterestAccruer interface {
	AccrueDueInterest(ctx context.Context) (int, error)
}

// ReminderSender is the part of NotificationService the scheduler depends on
type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}
