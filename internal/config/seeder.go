package config

import (
	"context"
	"log"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/pkg/password"

	"github.com/google/uuid"
)

// Seeder handles initial data seeding
type Seeder struct {
	store repositories.LedgerStore
	cfg   *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(store repositories.LedgerStore, cfg *Config) *Seeder {
	return &Seeder{store: store, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running seeders...")

	if err := s.seedManagers(ctx); err != nil {
		log.Printf("⚠️ Manager seeder skipped: %v", err)
		return err
	}

	log.Println("✅ Seeding completed")
	return nil
}

// seedManagers creates both manager accounts on an empty user collection.
// They must change their password on first login.
func (s *Seeder) seedManagers(ctx context.Context) error {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	managers := []struct {
		name     string
		email    string
		membNo   string
		role     domain.Role
		password string
	}{
		{"Primary Manager", "mgr-001@hub.local", "ADMIN-01", domain.RoleManagerPrimary, s.cfg.Seed.Manager1Password},
		{"Secondary Manager", "mgr-002@hub.local", "ADMIN-02", domain.RoleManagerSecondary, s.cfg.Seed.Manager2Password},
	}

	now := time.Now().UTC()
	seeded := make([]domain.User, 0, len(managers))
	for _, m := range managers {
		hash, err := password.Hash(m.password)
		if err != nil {
			return err
		}
		seeded = append(seeded, domain.User{
			ID:               uuid.New().String(),
			Name:             m.name,
			Email:            m.email,
			MembNo:           m.membNo,
			Password:         hash,
			Role:             m.role,
			Status:           domain.UserStatusApproved,
			IsFirstLogin:     true,
			RegistrationDate: now,
		})
	}

	if err := s.store.SaveUsers(ctx, seeded); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d manager accounts (ADMIN-01, ADMIN-02)", len(seeded))
	return nil
}
