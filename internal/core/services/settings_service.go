package services

import (
	"context"
	"log"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"
)

// SettingsService handles the global settings record
type SettingsService struct {
	uow *UnitOfWork
}

// NewSettingsService creates a new settings service
func NewSettingsService(uow *UnitOfWork) *SettingsService {
	return &SettingsService{uow: uow}
}

// Get returns the current settings
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return snap.Settings, nil
}

// Update replaces the settings; last write wins
func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		return repositories.NewChangeset().SetSettings(settings), nil
	})
	if err != nil {
		return domain.Settings{}, err
	}

	log.Printf("⚙️ Automated reminders enabled: %t", settings.AutomatedRemindersEnabled)
	return settings, nil
}
