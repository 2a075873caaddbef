package models

import (
	"time"

	"contribution-hub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Storage Tables
// ============================================================

// KVEntry represents kv_entries table.
// Every ledger collection is one row holding its JSON document.
type KVEntry struct {
	EntryKey  string    `gorm:"column:entry_key;primaryKey;size:191" json:"key"`
	Value     []byte    `gorm:"type:longblob;not null" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// AutoMigrate creates or updates the storage tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&KVEntry{})
}

// ============================================================
// DTOs
// ============================================================

// UserResponse DTO
type UserResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	MembNo           string            `json:"memb_no,omitempty"`
	Role             domain.Role       `json:"role"`
	Status           domain.UserStatus `json:"status"`
	IsFirstLogin     bool              `json:"is_first_login"`
	RegistrationDate time.Time         `json:"registration_date"`
	LastLogin        *time.Time        `json:"last_login,omitempty"`
}

// NewUserResponse strips the password hash
func NewUserResponse(u domain.User) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		MembNo:           u.MembNo,
		Role:             u.Role,
		Status:           u.Status,
		IsFirstLogin:     u.IsFirstLogin,
		RegistrationDate: u.RegistrationDate,
		LastLogin:        u.LastLogin,
	}
}

// NewUserResponses maps a slice of users
func NewUserResponses(users []domain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
