package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"contribution-hub/internal/core/domain"
)

// DefaultKeyPrefix namespaces the collection keys
const DefaultKeyPrefix = "hub_"

// ledgerStore implements LedgerStore on top of any KeyValueRepository.
// Each collection is one JSON document under prefix+collection.
type ledgerStore struct {
	kv       KeyValueRepository
	notifier ChangeNotifier
	prefix   string
}

// NewLedgerStore creates a new ledger store. notifier may be nil.
func NewLedgerStore(kv KeyValueRepository, notifier ChangeNotifier, prefix string) LedgerStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ledgerStore{kv: kv, notifier: notifier, prefix: prefix}
}

func (s *ledgerStore) key(col Collection) string {
	return s.prefix + string(col)
}

// load decodes a collection; a missing key is an empty collection
func load[T any](ctx context.Context, s *ledgerStore, col Collection) ([]T, error) {
	raw, err := s.kv.Get(ctx, s.key(col))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, domain.Persistence("read "+string(col), err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.Persistence("decode "+string(col), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetUsers gets all users
func (s *ledgerStore) GetUsers(ctx context.Context) ([]domain.User, error) {
	return load[domain.User](ctx, s, CollectionUsers)
}

// GetPayments gets all payments
func (s *ledgerStore) GetPayments(ctx context.Context) ([]domain.Payment, error) {
	return load[domain.Payment](ctx, s, CollectionPayments)
}

// GetLoans gets all loans
func (s *ledgerStore) GetLoans(ctx context.Context) ([]domain.Loan, error) {
	return load[domain.Loan](ctx, s, CollectionLoans)
}

// GetNotifications gets all notifications
func (s *ledgerStore) GetNotifications(ctx context.Context) ([]domain.Notification, error) {
	return load[domain.Notification](ctx, s, CollectionNotifications)
}

// GetSettings gets the settings record, falling back to defaults
func (s *ledgerStore) GetSettings(ctx context.Context) (domain.Settings, error) {
	raw, err := s.kv.Get(ctx, s.key(CollectionSettings))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, domain.Persistence("read settings", err)
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, domain.Persistence("decode settings", err)
	}
	return settings, nil
}

func (s *ledgerStore) SaveUsers(ctx context.Context, users []domain.User) error {
	return s.Commit(ctx, NewChangeset().SetUsers(users))
}

func (s *ledgerStore) SavePayments(ctx context.Context, payments []domain.Payment) error {
	return s.Commit(ctx, NewChangeset().SetPayments(payments))
}

func (s *ledgerStore) SaveLoans(ctx context.Context, loans []domain.Loan) error {
	return s.Commit(ctx, NewChangeset().SetLoans(loans))
}

func (s *ledgerStore) SaveNotifications(ctx context.Context, notifications []domain.Notification) error {
	return s.Commit(ctx, NewChangeset().SetNotifications(notifications))
}

func (s *ledgerStore) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.Commit(ctx, NewChangeset().SetSettings(settings))
}

// Commit encodes every touched collection, writes them in one PutAll and
// then publishes one change event per collection.
func (s *ledgerStore) Commit(ctx context.Context, cs *Changeset) error {
	if cs == nil || cs.IsEmpty() {
		return nil
	}

	touched := cs.Touched()
	entries := make(map[string][]byte, len(touched))
	for _, col := range touched {
		raw, err := json.Marshal(cs.value(col))
		if err != nil {
			return domain.Persistence("encode "+string(col), err)
		}
		entries[s.key(col)] = raw
	}

	if err := s.kv.PutAll(ctx, entries); err != nil {
		return domain.Persistence(fmt.Sprintf("write %v", touched), err)
	}

	s.publish(ctx, touched)
	return nil
}

// publish is best effort; a lost event only delays other observers
func (s *ledgerStore) publish(ctx context.Context, touched []Collection) {
	if s.notifier == nil {
		return
	}
	now := time.Now().UTC()
	for _, col := range touched {
		if err := s.notifier.Publish(ctx, ChangeEvent{Collection: col, At: now}); err != nil {
			log.Printf("⚠️ Failed to publish change for %s: %v", col, err)
		}
	}
}

// Ping checks the backend
func (s *ledgerStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
