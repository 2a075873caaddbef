package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"
)

// NotificationService handles in-app notifications and scheduled reminders
type NotificationService struct {
	uow         *UnitOfWork
	dueSoonDays int
}

// NewNotificationService creates a new notification service
func NewNotificationService(uow *UnitOfWork, dueSoonDays int) *NotificationService {
	return &NotificationService{uow: uow, dueSoonDays: dueSoonDays}
}

// SendInput represents a manual notification
type SendInput struct {
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

// ContributionReminder is broadcast once per reminder run
const ContributionReminder = "Reminder: monthly contributions are due. Please submit your payment and receipt."

// DueSoonMessage is sent to a client whose loan accrues interest soon
func DueSoonMessage(loan domain.Loan) string {
	return fmt.Sprintf("Reminder: your loan balance of %s accrues 5%% interest on %s. Repay before then to avoid it.",
		loan.Balance.StringFixed(2),
		loan.ClosingDate.Format("2006-01-02"),
	)
}

// Send appends a notification for one user or for ALL
func (s *NotificationService) Send(ctx context.Context, input *SendInput) (*domain.Notification, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	recipient := strings.TrimSpace(input.RecipientID)
	if recipient == "" {
		recipient = domain.RecipientAll
	}

	var created domain.Notification
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		if recipient != domain.RecipientAll && snap.FindUser(recipient) < 0 {
			return nil, domain.ErrUserNotFound
		}

		created = domain.Notification{
			ID:          newID("n"),
			RecipientID: recipient,
			Message:     message,
			Date:        s.uow.Now(),
		}
		return repositories.NewChangeset().
			SetNotifications(append(cloneNotifications(snap.Notifications), created)), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ForUser returns the notifications addressed to userID or ALL, newest first
func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	return notificationsFor(snap.Notifications, userID), nil
}

// SendReminders broadcasts the contribution reminder and warns clients whose
// loans accrue within the due-soon window. Nothing is sent while reminders
// are disabled, and a message already sent to a recipient today is skipped.
func (s *NotificationService) SendReminders(ctx context.Context) (int, error) {
	var sent int
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		sent = 0
		if !snap.Settings.AutomatedRemindersEnabled {
			return nil, nil
		}

		now := s.uow.Now()
		notifications := cloneNotifications(snap.Notifications)
		add := func(recipient, message string) {
			if sentToday(notifications, recipient, message, now) {
				return
			}
			notifications = append(notifications, domain.Notification{
				ID:          newID("n"),
				RecipientID: recipient,
				Message:     message,
				Date:        now,
			})
			sent++
		}

		add(domain.RecipientAll, ContributionReminder)

		horizon := now.AddDate(0, 0, s.dueSoonDays)
		for _, loan := range snap.Loans {
			if loan.IsSettled() || loan.ClosingDate.Before(now) || loan.ClosingDate.After(horizon) {
				continue
			}
			add(loan.ClientID, DueSoonMessage(loan))
		}

		if sent == 0 {
			return nil, nil
		}
		return repositories.NewChangeset().SetNotifications(notifications), nil
	})
	if err != nil {
		return 0, err
	}

	if sent > 0 {
		log.Printf("🔔 Sent %d reminder(s)", sent)
	}
	return sent, nil
}

func sentToday(notifications []domain.Notification, recipient, message string, now time.Time) bool {
	y, m, d := now.Date()
	for _, n := range notifications {
		if n.RecipientID != recipient || n.Message != message {
			continue
		}
		ny, nm, nd := n.Date.In(now.Location()).Date()
		if ny == y && nm == m && nd == d {
			return true
		}
	}
	return false
}

func notificationsFor(notifications []domain.Notification, userID string) []domain.Notification {
	out := make([]domain.Notification, 0)
	for _, n := range notifications {
		if n.IsFor(userID) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
