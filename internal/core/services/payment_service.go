package services

import (
	"context"
	"sort"
	"strings"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// PaymentService handles payment submission and history
type PaymentService struct {
	uow *UnitOfWork
}

// NewPaymentService creates a new payment service
func NewPaymentService(uow *UnitOfWork) *PaymentService {
	return &PaymentService{uow: uow}
}

// SubmitPaymentInput represents a client's payment claim
type SubmitPaymentInput struct {
	Amount     decimal.Decimal        `json:"amount"`
	Category   domain.PaymentCategory `json:"type"`
	ReceiptURL string                 `json:"receipt_url"`
	LoanID     string                 `json:"loan_id"`
}

// PaymentFilter narrows a payment listing. Zero values match everything.
type PaymentFilter struct {
	ClientID string
	Status   domain.PaymentStatus
	Category domain.PaymentCategory
}

func (f PaymentFilter) matches(p domain.Payment) bool {
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// Submit records a PENDING payment for clientID
func (s *PaymentService) Submit(ctx context.Context, clientID string, input *SubmitPaymentInput) (*domain.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if strings.TrimSpace(input.ReceiptURL) == "" {
		return nil, domain.ErrMissingReceipt
	}
	if input.Category == domain.CategoryLoanRepayment && input.LoanID == "" {
		return nil, domain.ErrMissingLoanReference
	}

	var created domain.Payment
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(clientID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}
		client := snap.Users[idx]
		if client.Role != domain.RoleClient || client.Status != domain.UserStatusApproved {
			return nil, domain.ErrNotAClient
		}

		loanID := ""
		if input.Category == domain.CategoryLoanRepayment {
			li := snap.FindLoan(input.LoanID)
			if li < 0 || snap.Loans[li].ClientID != clientID {
				return nil, domain.ErrLoanNotFound
			}
			loanID = input.LoanID
		}

		created = domain.Payment{
			ID:         newID("p"),
			ClientID:   client.ID,
			ClientName: client.Name,
			Amount:     input.Amount,
			Category:   input.Category,
			Date:       s.uow.Now(),
			ReceiptURL: strings.TrimSpace(input.ReceiptURL),
			Status:     domain.PaymentStatusPending,
			LoanID:     loanID,
		}

		payments := make([]domain.Payment, len(snap.Payments), len(snap.Payments)+1)
		copy(payments, snap.Payments)
		return repositories.NewChangeset().SetPayments(append(payments, created)), nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// List returns the payments matching filter, newest first
func (s *PaymentService) List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	return filterPayments(snap.Payments, filter), nil
}

// GetByID gets a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	idx := snap.FindPayment(id)
	if idx < 0 {
		return nil, domain.ErrPaymentNotFound
	}
	payment := snap.Payments[idx]
	return &payment, nil
}

func filterPayments(payments []domain.Payment, filter PaymentFilter) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if filter.matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
