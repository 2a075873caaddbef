package services

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"sort"
	"strings"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/pkg/password"
)

// UserService handles registration and manager-side account management
type UserService struct {
	uow *UnitOfWork
}

// NewUserService creates a new user service
func NewUserService(uow *UnitOfWork) *UserService {
	return &UserService{uow: uow}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ApproveInput represents the credentials a manager hands out on approval
type ApproveInput struct {
	MembNo       string `json:"memb_no"`
	TempPassword string `json:"temp_password"`
}

// ResetPasswordInput represents a manager password reset
type ResetPasswordInput struct {
	NewPassword string `json:"new_password"`
}

// ApprovalMessage is the notification sent when a registration is approved
func ApprovalMessage(membNo string) string {
	return fmt.Sprintf("Approved! ID: %s. Login and update password.", membNo)
}

// Register creates a PENDING client
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidName
	}

	var created domain.User
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		for _, u := range snap.Users {
			if strings.EqualFold(u.Email, email) {
				return nil, domain.ErrEmailTaken
			}
		}

		created = domain.User{
			ID:               newID("u"),
			Name:             name,
			Email:            email,
			Role:             domain.RoleClient,
			Status:           domain.UserStatusPending,
			IsFirstLogin:     true,
			RegistrationDate: s.uow.Now(),
		}
		return repositories.NewChangeset().SetUsers(append(cloneUsers(snap.Users), created)), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📝 Registration received: %s", created.ID)
	return &created, nil
}

// Approve activates a pending client with a member number and temporary
// password, then notifies them.
func (s *UserService) Approve(ctx context.Context, userID string, input *ApproveInput) (*domain.User, error) {
	membNo := strings.ToUpper(strings.TrimSpace(input.MembNo))
	if membNo == "" {
		return nil, domain.ErrMembNoRequired
	}
	if !password.ValidatePassword(input.TempPassword) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := password.Hash(input.TempPassword)
	if err != nil {
		return nil, err
	}

	var approved domain.User
	err = s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(userID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}
		if snap.Users[idx].Status != domain.UserStatusPending {
			return nil, domain.ErrUserNotPending
		}
		for _, u := range snap.Users {
			if u.ID != userID && u.HasMembNo(membNo) {
				return nil, domain.ErrMembNoTaken
			}
		}

		users := cloneUsers(snap.Users)
		users[idx].Status = domain.UserStatusApproved
		users[idx].MembNo = membNo
		users[idx].Password = hash
		users[idx].IsFirstLogin = true
		approved = users[idx]

		notification := domain.Notification{
			ID:          newID("n"),
			RecipientID: userID,
			Message:     ApprovalMessage(membNo),
			Date:        s.uow.Now(),
		}

		return repositories.NewChangeset().
			SetUsers(users).
			SetNotifications(append(cloneNotifications(snap.Notifications), notification)), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User %s approved as %s", userID, membNo)
	return &approved, nil
}

// Reject deactivates a user
func (s *UserService) Reject(ctx context.Context, userID string) (*domain.User, error) {
	var rejected domain.User
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(userID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}
		if snap.Users[idx].Role.IsManager() {
			return nil, domain.ErrForbidden
		}

		users := cloneUsers(snap.Users)
		users[idx].Status = domain.UserStatusRejected
		rejected = users[idx]
		return repositories.NewChangeset().SetUsers(users), nil
	})
	if err != nil {
		return nil, err
	}
	return &rejected, nil
}

// Delete removes a user together with their payments and loans in one commit
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.ErrCannotDeleteSelf
	}

	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		if snap.FindUser(userID) < 0 {
			return nil, domain.ErrUserNotFound
		}

		users := make([]domain.User, 0, len(snap.Users))
		for _, u := range snap.Users {
			if u.ID != userID {
				users = append(users, u)
			}
		}
		payments := make([]domain.Payment, 0, len(snap.Payments))
		for _, p := range snap.Payments {
			if p.ClientID != userID {
				payments = append(payments, p)
			}
		}
		loans := make([]domain.Loan, 0, len(snap.Loans))
		for _, l := range snap.Loans {
			if l.ClientID != userID {
				loans = append(loans, l)
			}
		}

		return repositories.NewChangeset().
			SetUsers(users).
			SetPayments(payments).
			SetLoans(loans), nil
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ User %s deleted with their payments and loans", userID)
	return nil
}

// ResetPassword sets a new temporary password and forces a change on next login
func (s *UserService) ResetPassword(ctx context.Context, userID string, input *ResetPasswordInput) error {
	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrWeakPassword
	}
	hash, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	return s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(userID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}

		users := cloneUsers(snap.Users)
		users[idx].Password = hash
		users[idx].IsFirstLogin = true
		return repositories.NewChangeset().SetUsers(users), nil
	})
}

// List returns users, optionally filtered by status, newest registration first
func (s *UserService) List(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(snap.Users))
	for _, u := range snap.Users {
		if status == "" || u.Status == status {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationDate.After(out[j].RegistrationDate)
	})
	return out, nil
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	idx := snap.FindUser(id)
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}
	user := snap.Users[idx]
	return &user, nil
}

func cloneUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users), len(users)+1)
	copy(out, users)
	return out
}
