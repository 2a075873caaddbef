// Package ledger holds the pure loan and payment arithmetic. Nothing in this
// package performs I/O; callers load collections, pass them in and persist
// what comes back.
package ledger

import (
	"time"

	"contribution-hub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// InterestRate is charged once upfront at issuance and once per elapsed cycle
var InterestRate = decimal.New(5, -2)

// CycleMonths is the number of calendar months between accrual boundaries
const CycleMonths = 3

// maxCatchUpCycles bounds a single catch-up pass (one hundred years of cycles)
const maxCatchUpCycles = 400

// NextClosingDate advances a boundary by one cycle
func NextClosingDate(from time.Time) time.Time {
	return from.AddDate(0, CycleMonths, 0)
}

// IsDue reports whether the loan's current cycle has elapsed while it still owes money
func IsDue(loan domain.Loan, now time.Time) bool {
	return loan.Status == domain.LoanStatusActive &&
		loan.Balance.IsPositive() &&
		loan.ClosingDate.Before(now)
}

// AccrueOnce applies exactly one cycle of interest if the loan is due.
// The new closing date is computed from the previous one, never from now.
func AccrueOnce(loan domain.Loan, now time.Time) (domain.Loan, bool) {
	if !IsDue(loan, now) {
		return loan, false
	}

	interest := loan.Balance.Mul(InterestRate)
	loan.Balance = loan.Balance.Add(interest)
	loan.InterestAmount = loan.InterestAmount.Add(interest)
	loan.ClosingDate = NextClosingDate(loan.ClosingDate)
	return loan, true
}

// AccrueDue applies one cycle, or with catchUp every elapsed cycle until the
// closing date is no longer before now. It returns the number of cycles applied.
func AccrueDue(loan domain.Loan, now time.Time, catchUp bool) (domain.Loan, int) {
	cycles := 0
	for cycles < maxCatchUpCycles {
		next, ok := AccrueOnce(loan, now)
		if !ok {
			break
		}
		loan = next
		cycles++
		if !catchUp {
			break
		}
	}
	return loan, cycles
}

// AccrueAll runs AccrueDue over a whole collection. The input slice is not
// modified; the returned count is the total number of cycles applied.
func AccrueAll(loans []domain.Loan, now time.Time, catchUp bool) ([]domain.Loan, int) {
	out := make([]domain.Loan, len(loans))
	total := 0
	for i, loan := range loans {
		updated, cycles := AccrueDue(loan, now, catchUp)
		out[i] = updated
		total += cycles
	}
	return out, total
}
