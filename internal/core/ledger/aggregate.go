package ledger

import (
	"contribution-hub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CategoryTotals maps every payment category to its approved sum
type CategoryTotals map[domain.PaymentCategory]decimal.Decimal

func newCategoryTotals() CategoryTotals {
	totals := make(CategoryTotals, len(domain.PaymentCategories))
	for _, c := range domain.PaymentCategories {
		totals[c] = decimal.Zero
	}
	return totals
}

// Sum adds up every category
func (t CategoryTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range domain.PaymentCategories {
		sum = sum.Add(t[c])
	}
	return sum
}

// ClientLedger is one row of the manager's member performance table
type ClientLedger struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	MembNo     string          `json:"memb_no"`
	Totals     CategoryTotals  `json:"totals"`
	Total      decimal.Decimal `json:"total"`
	LoanDebt   decimal.Decimal `json:"loan_debt"`
}

// Counts feeds the badge counters
type Counts struct {
	ActiveClients    int `json:"active_clients"`
	PendingUsers     int `json:"pending_users"`
	PendingPayments  int `json:"pending_payments"`
	ApprovedPayments int `json:"approved_payments"`
	RejectedPayments int `json:"rejected_payments"`
	ActiveLoans      int `json:"active_loans"`
	PaidLoans        int `json:"paid_loans"`
}

// LedgerView is the organization-wide derived view
type LedgerView struct {
	Totals           CategoryTotals  `json:"totals"`
	TotalInflow      decimal.Decimal `json:"total_inflow"`
	TotalDisbursed   decimal.Decimal `json:"total_disbursed"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	NetLiquidity     decimal.Decimal `json:"net_liquidity"`
	Clients          []ClientLedger  `json:"clients"`
	Counts           Counts          `json:"counts"`
}

// ClientTotals sums a single client's approved payments by category
func ClientTotals(payments []domain.Payment, clientID string) (CategoryTotals, decimal.Decimal) {
	totals := newCategoryTotals()
	for _, p := range payments {
		if p.ClientID != clientID || p.Status != domain.PaymentStatusApproved {
			continue
		}
		totals[p.Category] = totals[p.Category].Add(p.Amount)
	}
	return totals, totals.Sum()
}

// Aggregate derives the manager view. It never mutates its inputs and keeps
// no state between calls.
func Aggregate(users []domain.User, payments []domain.Payment, loans []domain.Loan) LedgerView {
	view := LedgerView{
		Totals:           newCategoryTotals(),
		TotalDisbursed:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		TotalInterest:    decimal.Zero,
		Clients:          []ClientLedger{},
	}

	for _, p := range payments {
		switch p.Status {
		case domain.PaymentStatusPending:
			view.Counts.PendingPayments++
		case domain.PaymentStatusApproved:
			view.Counts.ApprovedPayments++
			view.Totals[p.Category] = view.Totals[p.Category].Add(p.Amount)
		case domain.PaymentStatusRejected:
			view.Counts.RejectedPayments++
		}
	}

	debt := make(map[string]decimal.Decimal)
	for _, l := range loans {
		view.TotalDisbursed = view.TotalDisbursed.Add(l.DisbursementAmount)
		view.TotalInterest = view.TotalInterest.Add(l.InterestAmount)
		if l.Status == domain.LoanStatusPaid {
			view.Counts.PaidLoans++
			continue
		}
		view.Counts.ActiveLoans++
		view.TotalOutstanding = view.TotalOutstanding.Add(l.Balance)
		debt[l.ClientID] = debt[l.ClientID].Add(l.Balance)
	}

	for _, u := range users {
		if u.Role != domain.RoleClient {
			continue
		}
		switch u.Status {
		case domain.UserStatusPending:
			view.Counts.PendingUsers++
		case domain.UserStatusApproved:
			view.Counts.ActiveClients++
			totals, total := ClientTotals(payments, u.ID)
			owed, ok := debt[u.ID]
			if !ok {
				owed = decimal.Zero
			}
			view.Clients = append(view.Clients, ClientLedger{
				ClientID:   u.ID,
				ClientName: u.Name,
				MembNo:     u.MembNo,
				Totals:     totals,
				Total:      total,
				LoanDebt:   owed,
			})
		}
	}

	view.TotalInflow = view.Totals.Sum()
	view.NetLiquidity = view.TotalInflow.Sub(view.TotalDisbursed)
	return view
}
