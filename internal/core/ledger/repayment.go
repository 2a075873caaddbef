package ledger

import (
	"contribution-hub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// StatusFor derives a loan status from its balance
func StatusFor(balance decimal.Decimal) domain.LoanStatus {
	if balance.Sign() <= 0 {
		return domain.LoanStatusPaid
	}
	return domain.LoanStatusActive
}

// ApplyRepayment reduces the balance by amount, floored at zero, and sets the
// status in the same step so a zero balance is never ACTIVE.
func ApplyRepayment(loan domain.Loan, amount decimal.Decimal) domain.Loan {
	balance := loan.Balance.Sub(amount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	loan.Balance = balance
	loan.Status = StatusFor(balance)
	return loan
}

// ReducesLoan reports whether moving payment from its current status to next
// must reduce the linked loan. Only a fresh approval counts; resets and
// repeated approvals leave the loan alone.
func ReducesLoan(payment domain.Payment, next domain.PaymentStatus) bool {
	return next == domain.PaymentStatusApproved &&
		payment.Status != domain.PaymentStatusApproved &&
		payment.IsLoanRepayment()
}

// Reconcile applies a status transition to payment and, when it is a fresh
// loan-repayment approval, to the matching loan. It returns the updated
// payment, the updated loan collection and the index of the touched loan
// (-1 when no loan changed, including a dangling loan id).
func Reconcile(payment domain.Payment, next domain.PaymentStatus, loans []domain.Loan) (domain.Payment, []domain.Loan, int) {
	touched := -1
	out := loans

	if ReducesLoan(payment, next) {
		for i, loan := range loans {
			if loan.ID != payment.LoanID {
				continue
			}
			out = make([]domain.Loan, len(loans))
			copy(out, loans)
			out[i] = ApplyRepayment(loan, payment.Amount)
			touched = i
			break
		}
	}

	payment.Status = next
	return payment, out, touched
}
