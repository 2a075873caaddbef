package services

import (
	"context"
	"log"

	"contribution-hub/internal/adapters/persistence/models"
	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/config"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/pkg/jwt"
	"contribution-hub/internal/pkg/password"
)

// AuthService handles authentication business logic
type AuthService struct {
	uow *UnitOfWork
	cfg *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(uow *UnitOfWork, cfg *config.Config) *AuthService {
	return &AuthService{uow: uow, cfg: cfg}
}

// LoginInput represents login input
type LoginInput struct {
	MembNo   string `json:"memb_no"`
	Password string `json:"password"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	NewPassword string `json:"new_password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
}

// Login authenticates by member number (case-insensitive) and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	var user domain.User
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := -1
		for i := range snap.Users {
			if snap.Users[i].HasMembNo(input.MembNo) {
				idx = i
				break
			}
		}
		if idx < 0 || !password.Verify(input.Password, snap.Users[idx].Password) {
			return nil, domain.ErrInvalidCredentials
		}

		switch snap.Users[idx].Status {
		case domain.UserStatusPending:
			return nil, domain.ErrAccountPending
		case domain.UserStatusRejected:
			return nil, domain.ErrAccountRejected
		}

		users := cloneUsers(snap.Users)
		now := s.uow.Now()
		users[idx].LastLogin = &now
		user = users[idx]
		return repositories.NewChangeset().SetUsers(users), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🔐 Login: %s (%s)", user.MembNo, user.Role)
	return s.respond(user)
}

// ChangePassword sets the user's own password and clears the first-login flag.
// A fresh token is issued since the old one still carries the flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) (*AuthResponse, error) {
	if !password.ValidatePassword(input.NewPassword) {
		return nil, domain.ErrWeakPassword
	}
	hash, err := password.Hash(input.NewPassword)
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(userID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}

		users := cloneUsers(snap.Users)
		users[idx].Password = hash
		users[idx].IsFirstLogin = false
		user = users[idx]
		return repositories.NewChangeset().SetUsers(users), nil
	})
	if err != nil {
		return nil, err
	}

	return s.respond(user)
}

// Me returns the current user's profile
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	idx := snap.FindUser(userID)
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}
	return models.NewUserResponse(snap.Users[idx]), nil
}

// CheckActive fails once the user has been rejected or deleted, so tokens
// issued earlier stop working before they expire
func (s *AuthService) CheckActive(ctx context.Context, userID string) error {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return err
	}
	idx := snap.FindUser(userID)
	if idx < 0 {
		return domain.ErrUserNotFound
	}
	if snap.Users[idx].Status == domain.UserStatusRejected {
		return domain.ErrAccountRejected
	}
	return nil
}

func (s *AuthService) respond(user domain.User) (*AuthResponse, error) {
	token, err := jwt.GenerateAccessToken(jwt.Identity{
		UserID:     user.ID,
		MembNo:     user.MembNo,
		Name:       user.Name,
		Role:       string(user.Role),
		FirstLogin: user.IsFirstLogin,
	}, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        models.NewUserResponse(user),
		AccessToken: token,
	}, nil
}
