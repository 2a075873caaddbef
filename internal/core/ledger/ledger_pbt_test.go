package ledger

import (
	"testing"

	"contribution-hub/internal/core/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func cents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func propertyParams() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	return params
}

func TestAccrualProperties(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("accrual strictly grows balance and interest of a due loan", prop.ForAll(
		func(balanceCents int64, daysLate int) bool {
			loan := activeLoan("0", refNow.AddDate(0, 0, -daysLate))
			loan.Balance = cents(balanceCents)

			got, changed := AccrueOnce(loan, refNow)
			return changed &&
				got.Balance.GreaterThan(loan.Balance) &&
				got.InterestAmount.GreaterThan(loan.InterestAmount)
		},
		gen.Int64Range(1, 10_000_000_000),
		gen.IntRange(1, 3650),
	))

	properties.Property("accrual is a no-op on settled loans", prop.ForAll(
		func(balanceCents int64, daysLate int, paid bool) bool {
			loan := activeLoan("0", refNow.AddDate(0, 0, -daysLate))
			loan.Balance = cents(-balanceCents)
			if paid {
				loan.Status = domain.LoanStatusPaid
				loan.Balance = cents(balanceCents)
			}

			got, cycles := AccrueDue(loan, refNow, true)
			return cycles == 0 && got == loan
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(1, 3650),
		gen.Bool(),
	))

	properties.Property("catch-up leaves the closing date at or after now", prop.ForAll(
		func(balanceCents int64, daysLate int) bool {
			loan := activeLoan("0", refNow.AddDate(0, 0, -daysLate))
			loan.Balance = cents(balanceCents)

			got, cycles := AccrueDue(loan, refNow, true)
			return cycles >= 1 && !got.ClosingDate.Before(refNow)
		},
		gen.Int64Range(1, 1_000_000_00),
		gen.IntRange(1, 3650),
	))

	properties.TestingRun(t)
}

func TestRepaymentProperties(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("repayment never drives the balance below zero", prop.ForAll(
		func(balanceCents, amountCents int64) bool {
			loan := activeLoan("0", refNow)
			loan.Balance = cents(balanceCents)

			got := ApplyRepayment(loan, cents(amountCents))
			if amountCents >= balanceCents {
				return got.Balance.IsZero()
			}
			return got.Balance.Equal(cents(balanceCents - amountCents))
		},
		gen.Int64Range(1, 1_000_000_00),
		gen.Int64Range(1, 2_000_000_00),
	))

	properties.Property("status is PAID iff balance <= 0 after repayment and accrual", prop.ForAll(
		func(balanceCents, amountCents int64, daysLate int) bool {
			loan := activeLoan("0", refNow.AddDate(0, 0, -daysLate))
			loan.Balance = cents(balanceCents)

			repaid := ApplyRepayment(loan, cents(amountCents))
			accrued, _ := AccrueDue(repaid, refNow, true)

			for _, l := range []domain.Loan{repaid, accrued} {
				if (l.Status == domain.LoanStatusPaid) != (l.Balance.Sign() <= 0) {
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 1_000_000_00),
		gen.Int64Range(1, 2_000_000_00),
		gen.IntRange(0, 3650),
	))

	properties.TestingRun(t)
}
