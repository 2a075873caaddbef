package services

import (
	"context"
	"log"
	"sort"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/ledger"

	"github.com/shopspring/decimal"
)

// LedgerService owns every write that touches loan balances
type LedgerService struct {
	uow     *UnitOfWork
	catchUp bool
}

// NewLedgerService creates a new ledger service.
// With catchUp set, accrual applies every elapsed cycle instead of one per run.
func NewLedgerService(uow *UnitOfWork, catchUp bool) *LedgerService {
	return &LedgerService{uow: uow, catchUp: catchUp}
}

// IssueLoanInput represents loan issuance input
type IssueLoanInput struct {
	ClientID  string          `json:"client_id"`
	Principal decimal.Decimal `json:"principal"`
}

// ============================================================
// Accrual
// ============================================================

// AccrueDueInterest applies interest to every overdue active loan and
// persists the collection when anything changed. Returns cycles applied.
func (s *LedgerService) AccrueDueInterest(ctx context.Context) (int, error) {
	var cycles int
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		var accrued []domain.Loan
		accrued, cycles = ledger.AccrueAll(snap.Loans, s.uow.Now(), s.catchUp)
		if cycles == 0 {
			return nil, nil
		}
		return repositories.NewChangeset().SetLoans(accrued), nil
	})
	if err != nil {
		return 0, err
	}

	if cycles > 0 {
		log.Printf("💰 Accrued %d interest cycle(s)", cycles)
	}
	return cycles, nil
}

// Loans returns every loan, newest first, after bringing accrual up to date
func (s *LedgerService) Loans(ctx context.Context) ([]domain.Loan, error) {
	if _, err := s.AccrueDueInterest(ctx); err != nil {
		return nil, err
	}

	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}
	return sortLoans(snap.Loans), nil
}

// LoansForClient returns the loans of one client, newest first
func (s *LedgerService) LoansForClient(ctx context.Context, clientID string) ([]domain.Loan, error) {
	loans, err := s.Loans(ctx)
	if err != nil {
		return nil, err
	}
	return filterLoans(loans, clientID), nil
}

// ============================================================
// Reconciliation
// ============================================================

// SetPaymentStatus moves a payment to status. Approving a loan repayment
// reduces the linked loan in the same commit.
func (s *LedgerService) SetPaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var updated domain.Payment
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindPayment(paymentID)
		if idx < 0 {
			return nil, domain.ErrPaymentNotFound
		}

		payment, loans, touched := ledger.Reconcile(snap.Payments[idx], status, snap.Loans)
		updated = payment

		payments := make([]domain.Payment, len(snap.Payments))
		copy(payments, snap.Payments)
		payments[idx] = payment

		cs := repositories.NewChangeset().SetPayments(payments)
		if touched >= 0 {
			cs.SetLoans(loans)
		}
		return cs, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧾 Payment %s -> %s", paymentID, status)
	return &updated, nil
}

// ============================================================
// Issuance
// ============================================================

// IssueLoan creates a loan for an approved client and notifies them.
// Loan and notification are written together.
func (s *LedgerService) IssueLoan(ctx context.Context, input *IssueLoanInput) (*domain.Loan, error) {
	if input.Principal.Sign() <= 0 {
		return nil, domain.ErrInvalidPrincipal
	}

	var issued domain.Loan
	err := s.uow.Update(ctx, func(snap *Snapshot) (*repositories.Changeset, error) {
		idx := snap.FindUser(input.ClientID)
		if idx < 0 {
			return nil, domain.ErrUserNotFound
		}
		client := snap.Users[idx]
		if client.Role != domain.RoleClient || client.Status != domain.UserStatusApproved {
			return nil, domain.ErrNotAClient
		}

		now := s.uow.Now()
		loan, err := ledger.NewLoan(newID("l"), client.ID, client.Name, input.Principal, now)
		if err != nil {
			return nil, err
		}
		issued = loan

		notification := domain.Notification{
			ID:          newID("n"),
			RecipientID: client.ID,
			Message:     ledger.IssuanceMessage(loan),
			Date:        now,
		}

		return repositories.NewChangeset().
			SetLoans(append(cloneLoans(snap.Loans), loan)).
			SetNotifications(append(cloneNotifications(snap.Notifications), notification)), nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏦 Loan %s issued to %s (principal %s)", issued.ID, issued.ClientID, issued.Amount.StringFixed(2))
	return &issued, nil
}

// ============================================================
// Helpers
// ============================================================

func sortLoans(loans []domain.Loan) []domain.Loan {
	out := cloneLoans(loans)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpeningDate.After(out[j].OpeningDate)
	})
	return out
}

func filterLoans(loans []domain.Loan, clientID string) []domain.Loan {
	out := make([]domain.Loan, 0)
	for _, l := range loans {
		if l.ClientID == clientID {
			out = append(out, l)
		}
	}
	return out
}

func cloneLoans(loans []domain.Loan) []domain.Loan {
	out := make([]domain.Loan, len(loans), len(loans)+1)
	copy(out, loans)
	return out
}

func cloneNotifications(notifications []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, len(notifications), len(notifications)+1)
	copy(out, notifications)
	return out
}
