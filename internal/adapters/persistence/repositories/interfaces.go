package repositories

import (
	"context"
	"errors"
	"time"

	"contribution-hub/internal/core/domain"
)

// ErrKeyNotFound is returned by KeyValueRepository.Get for absent keys
var ErrKeyNotFound = errors.New("key not found")

// Collection names one of the persisted collections
type Collection string

const (
	CollectionUsers         Collection = "users"
	CollectionPayments      Collection = "payments"
	CollectionLoans         Collection = "loans"
	CollectionNotifications Collection = "notifications"
	CollectionSettings      Collection = "settings"
)

// AllCollections lists every collection in a stable order
var AllCollections = []Collection{
	CollectionUsers,
	CollectionPayments,
	CollectionLoans,
	CollectionNotifications,
	CollectionSettings,
}

// KeyValueRepository defines the raw key-value backend
type KeyValueRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// PutAll writes every entry or none of them
	PutAll(ctx context.Context, entries map[string][]byte) error
	Ping(ctx context.Context) error
	Close() error
}

// ChangeEvent tells observers which collection was rewritten
type ChangeEvent struct {
	Collection Collection `json:"collection"`
	At         time.Time  `json:"at"`
}

// ChangeNotifier defines the fire-and-forget change feed
type ChangeNotifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
	// Subscribe delivers events until ctx is cancelled, then closes the channel
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
	Close() error
}

// LedgerStore defines whole-collection access to the ledger data
type LedgerStore interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetPayments(ctx context.Context) ([]domain.Payment, error)
	GetLoans(ctx context.Context) ([]domain.Loan, error)
	GetNotifications(ctx context.Context) ([]domain.Notification, error)
	GetSettings(ctx context.Context) (domain.Settings, error)

	SaveUsers(ctx context.Context, users []domain.User) error
	SavePayments(ctx context.Context, payments []domain.Payment) error
	SaveLoans(ctx context.Context, loans []domain.Loan) error
	SaveNotifications(ctx context.Context, notifications []domain.Notification) error
	SaveSettings(ctx context.Context, settings domain.Settings) error

	// Commit replaces every collection set on the changeset in one write
	Commit(ctx context.Context, cs *Changeset) error
	Ping(ctx context.Context) error
}
