package ledger

import (
	"fmt"
	"time"

	"contribution-hub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// NewLoan builds an ACTIVE loan. The upfront interest is deducted from the
// cash handed out but the client owes the full principal.
func NewLoan(id, clientID, clientName string, principal decimal.Decimal, openingDate time.Time) (domain.Loan, error) {
	if !principal.IsPositive() {
		return domain.Loan{}, domain.ErrInvalidPrincipal
	}

	upfront := principal.Mul(InterestRate)
	return domain.Loan{
		ID:                 id,
		ClientID:           clientID,
		ClientName:         clientName,
		Amount:             principal,
		DisbursementAmount: principal.Sub(upfront),
		InterestAmount:     upfront,
		Balance:            principal,
		OpeningDate:        openingDate,
		ClosingDate:        NextClosingDate(openingDate),
		Status:             domain.LoanStatusActive,
	}, nil
}

// IssuanceMessage is the notification text sent to the client on issuance
func IssuanceMessage(loan domain.Loan) string {
	return fmt.Sprintf("Loan issued. Principal: %s, Disbursed: %s. Next due: %s",
		loan.Amount.StringFixed(2),
		loan.DisbursementAmount.StringFixed(2),
		loan.ClosingDate.Format("2006-01-02"),
	)
}
