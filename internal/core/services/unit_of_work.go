package services

import (
	"context"
	"sync"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"

	"github.com/google/uuid"
)

// Snapshot is every collection as read at the start of one operation
type Snapshot struct {
	Users         []domain.User
	Payments      []domain.Payment
	Loans         []domain.Loan
	Notifications []domain.Notification
	Settings      domain.Settings
}

// UnitOfWork serializes read-modify-write cycles against the store.
// All services share one instance so their writes never interleave
// inside this process.
type UnitOfWork struct {
	store repositories.LedgerStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewUnitOfWork creates a new unit of work over store
func NewUnitOfWork(store repositories.LedgerStore) *UnitOfWork {
	return &UnitOfWork{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source
func (u *UnitOfWork) SetClock(now func() time.Time) {
	u.now = now
}

// Now returns the current time from the configured clock
func (u *UnitOfWork) Now() time.Time {
	return u.now()
}

// Store exposes the underlying store for health checks
func (u *UnitOfWork) Store() repositories.LedgerStore {
	return u.store
}

// Read loads a snapshot without taking the write lock
func (u *UnitOfWork) Read(ctx context.Context) (*Snapshot, error) {
	return u.load(ctx)
}

// Update runs fn against a fresh snapshot under the write lock and commits
// the changeset it returns. A nil changeset commits nothing.
func (u *UnitOfWork) Update(ctx context.Context, fn func(snap *Snapshot) (*repositories.Changeset, error)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap, err := u.load(ctx)
	if err != nil {
		return err
	}

	cs, err := fn(snap)
	if err != nil {
		return err
	}
	return u.store.Commit(ctx, cs)
}

func (u *UnitOfWork) load(ctx context.Context) (*Snapshot, error) {
	users, err := u.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := u.store.GetPayments(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := u.store.GetLoans(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := u.store.GetNotifications(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := u.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Users:         users,
		Payments:      payments,
		Loans:         loans,
		Notifications: notifications,
		Settings:      settings,
	}, nil
}

// FindUser returns the index of the user with id, or -1
func (s *Snapshot) FindUser(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindPayment returns the index of the payment with id, or -1
func (s *Snapshot) FindPayment(id string) int {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return i
		}
	}
	return -1
}

// FindLoan returns the index of the loan with id, or -1
func (s *Snapshot) FindLoan(id string) int {
	for i := range s.Loans {
		if s.Loans[i].ID == id {
			return i
		}
	}
	return -1
}

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
