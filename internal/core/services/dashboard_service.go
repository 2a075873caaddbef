package services

import (
	"context"

	"contribution-hub/internal/adapters/persistence/models"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/ledger"

	"github.com/shopspring/decimal"
)

// DashboardService builds the read-side views. Every view brings loan
// accrual up to date before it reads.
type DashboardService struct {
	uow     *UnitOfWork
	accruer InterestAccruer
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(uow *UnitOfWork, accruer InterestAccruer) *DashboardService {
	return &DashboardService{uow: uow, accruer: accruer}
}

// ============================================================
// Client Dashboard
// ============================================================

// ClientDashboardData represents client dashboard data
type ClientDashboardData struct {
	User                      *models.UserResponse  `json:"user"`
	Totals                    ledger.CategoryTotals `json:"totals"`
	Total                     decimal.Decimal       `json:"total"`
	LoanDebt                  decimal.Decimal       `json:"loan_debt"`
	Payments                  []domain.Payment      `json:"payments"`
	Loans                     []domain.Loan         `json:"loans"`
	Notifications             []domain.Notification `json:"notifications"`
	AutomatedRemindersEnabled bool                  `json:"automated_reminders_enabled"`
}

// GetClientDashboard returns the dashboard of one client. Managers use it
// to preview a client's view.
func (s *DashboardService) GetClientDashboard(ctx context.Context, clientID string) (*ClientDashboardData, error) {
	if _, err := s.accruer.AccrueDueInterest(ctx); err != nil {
		return nil, err
	}

	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}

	idx := snap.FindUser(clientID)
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}

	totals, total := ledger.ClientTotals(snap.Payments, clientID)
	loans := sortLoans(filterLoans(snap.Loans, clientID))

	debt := decimal.Zero
	for _, l := range loans {
		if !l.IsSettled() {
			debt = debt.Add(l.Balance)
		}
	}

	return &ClientDashboardData{
		User:                      models.NewUserResponse(snap.Users[idx]),
		Totals:                    totals,
		Total:                     total,
		LoanDebt:                  debt,
		Payments:                  filterPayments(snap.Payments, PaymentFilter{ClientID: clientID}),
		Loans:                     loans,
		Notifications:             notificationsFor(snap.Notifications, clientID),
		AutomatedRemindersEnabled: snap.Settings.AutomatedRemindersEnabled,
	}, nil
}

// ============================================================
// Manager Dashboard
// ============================================================

// ManagerDashboardData represents manager dashboard data
type ManagerDashboardData struct {
	Ledger               ledger.LedgerView      `json:"ledger"`
	PendingRegistrations []*models.UserResponse `json:"pending_registrations"`
	PendingPayments      []domain.Payment       `json:"pending_payments"`
	Loans                []domain.Loan          `json:"loans"`
	Settings             domain.Settings        `json:"settings"`
}

// GetManagerDashboard returns the organization-wide view
func (s *DashboardService) GetManagerDashboard(ctx context.Context) (*ManagerDashboardData, error) {
	if _, err := s.accruer.AccrueDueInterest(ctx); err != nil {
		return nil, err
	}

	snap, err := s.uow.Read(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]domain.User, 0)
	for _, u := range snap.Users {
		if u.Status == domain.UserStatusPending {
			pending = append(pending, u)
		}
	}

	return &ManagerDashboardData{
		Ledger:               ledger.Aggregate(snap.Users, snap.Payments, snap.Loans),
		PendingRegistrations: models.NewUserResponses(pending),
		PendingPayments:      filterPayments(snap.Payments, PaymentFilter{Status: domain.PaymentStatusPending}),
		Loans:                sortLoans(snap.Loans),
		Settings:             snap.Settings,
	}, nil
}
