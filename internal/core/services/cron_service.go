package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// ============================================================
// Background jobs: interest accrual scan + reminders
// ============================================================

// CronService runs the scheduled ledger jobs
type CronService struct {
	cron      *cron.Cron
	accruer   InterestAccruer
	reminders ReminderSender
}

// NewCronService creates a new cron service. Schedules use the standard
// five-field syntax or descriptors such as "@every 1h"; an empty schedule
// disables that job.
func NewCronService(accruer InterestAccruer, reminders ReminderSender, accrualSpec, reminderSpec string) (*CronService, error) {
	s := &CronService{
		cron:      cron.New(),
		accruer:   accruer,
		reminders: reminders,
	}

	if accrualSpec != "" {
		if _, err := s.cron.AddFunc(accrualSpec, s.RunAccrual); err != nil {
			return nil, fmt.Errorf("invalid accrual schedule %q: %w", accrualSpec, err)
		}
	}
	if reminderSpec != "" {
		if _, err := s.cron.AddFunc(reminderSpec, s.RunReminders); err != nil {
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", reminderSpec, err)
		}
	}

	return s, nil
}

// Start launches the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	log.Printf("🚀 CronService started (%d jobs)", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RunAccrual runs one accrual scan
func (s *CronService) RunAccrual() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.accruer.AccrueDueInterest(ctx); err != nil {
		log.Printf("❌ Accrual job failed: %v", err)
	}
}

// RunReminders runs one reminder pass
func (s *CronService) RunReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.reminders.SendReminders(ctx); err != nil {
		log.Printf("❌ Reminder job failed: %v", err)
	}
}
