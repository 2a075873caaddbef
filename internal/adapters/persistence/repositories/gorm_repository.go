package repositories

import (
	"context"
	"errors"

	"contribution-hub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKeyValueRepository stores entries in the kv_entries table
type GormKeyValueRepository struct {
	db *gorm.DB
}

// NewGormKeyValueRepository creates a new SQL-backed repository
func NewGormKeyValueRepository(db *gorm.DB) *GormKeyValueRepository {
	return &GormKeyValueRepository{db: db}
}

// Get retrieves a value by key
func (r *GormKeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

// PutAll upserts every entry in one transaction
func (r *GormKeyValueRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			entry := models.KVEntry{EntryKey: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping checks the database connection
func (r *GormKeyValueRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying pool
func (r *GormKeyValueRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
