package services

import (
	"testing"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueLoan(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")
	env.advance(time.Minute)
	env.changes.reset()

	loan, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("10000")})
	require.NoError(t, err)

	requireDecimal(t, "10000", loan.Amount)
	requireDecimal(t, "9500", loan.DisbursementAmount)
	requireDecimal(t, "500", loan.InterestAmount)
	requireDecimal(t, "10000", loan.Balance)
	assert.Equal(t, "Alice", loan.ClientName)
	assert.Equal(t, env.now.AddDate(0, 3, 0), loan.ClosingDate)

	assert.Equal(t,
		[]repositories.Collection{repositories.CollectionLoans, repositories.CollectionNotifications},
		env.changes.touched())

	notes, err := env.notifications.ForUser(env.ctx, client.ID)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Loan issued. Principal: 10000.00, Disbursed: 9500.00. Next due: 2027-01-16", notes[0].Message)
}

func TestIssueLoan_Rejections(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")
	pending, err := env.users.Register(env.ctx, &RegisterInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	env.changes.reset()

	_, err = env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidPrincipal)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidPrincipal)

	_, err = env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: pending.ID, Principal: dec("100")})
	assert.ErrorIs(t, err, domain.ErrNotAClient)

	_, err = env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: "nobody", Principal: dec("100")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, env.changes.touched())
	loans, err := env.store.GetLoans(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestSetPaymentStatus_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.SetPaymentStatus(env.ctx, "missing", domain.PaymentStatusApproved)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.ledger.SetPaymentStatus(env.ctx, "missing", domain.PaymentStatus("PAID"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestSetPaymentStatus_SideEffectsScopedToLinkedLoan(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")

	first, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("1000")})
	require.NoError(t, err)
	second, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("2000")})
	require.NoError(t, err)

	repay, err := env.payments.Submit(env.ctx, client.ID, &SubmitPaymentInput{
		Amount:     dec("400"),
		Category:   domain.CategoryLoanRepayment,
		ReceiptURL: "receipt://1",
		LoanID:     second.ID,
	})
	require.NoError(t, err)
	saving, err := env.payments.Submit(env.ctx, client.ID, &SubmitPaymentInput{
		Amount:     dec("50"),
		Category:   domain.CategorySaving,
		ReceiptURL: "receipt://2",
	})
	require.NoError(t, err)

	t.Run("non repayment writes payments only", func(t *testing.T) {
		env.changes.reset()
		_, err := env.ledger.SetPaymentStatus(env.ctx, saving.ID, domain.PaymentStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, []repositories.Collection{repositories.CollectionPayments}, env.changes.touched())
	})

	t.Run("repayment reduces only the linked loan in one commit", func(t *testing.T) {
		env.changes.reset()
		updated, err := env.ledger.SetPaymentStatus(env.ctx, repay.ID, domain.PaymentStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusApproved, updated.Status)
		assert.Equal(t,
			[]repositories.Collection{repositories.CollectionPayments, repositories.CollectionLoans},
			env.changes.touched())

		requireDecimal(t, "1600", env.loan(t, second.ID).Balance)
		requireDecimal(t, "1000", env.loan(t, first.ID).Balance)
	})

	t.Run("re-approval does not reduce twice", func(t *testing.T) {
		_, err := env.ledger.SetPaymentStatus(env.ctx, repay.ID, domain.PaymentStatusApproved)
		require.NoError(t, err)
		requireDecimal(t, "1600", env.loan(t, second.ID).Balance)
	})

	t.Run("reset keeps the reduced balance", func(t *testing.T) {
		_, err := env.ledger.SetPaymentStatus(env.ctx, repay.ID, domain.PaymentStatusPending)
		require.NoError(t, err)
		requireDecimal(t, "1600", env.loan(t, second.ID).Balance)
	})
}

func TestSetPaymentStatus_DanglingLoanIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")

	loan, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("1000")})
	require.NoError(t, err)
	repay, err := env.payments.Submit(env.ctx, client.ID, &SubmitPaymentInput{
		Amount:     dec("100"),
		Category:   domain.CategoryLoanRepayment,
		ReceiptURL: "receipt://1",
		LoanID:     loan.ID,
	})
	require.NoError(t, err)

	// Drop the loan behind the service's back
	require.NoError(t, env.store.SaveLoans(env.ctx, []domain.Loan{}))
	env.changes.reset()

	updated, err := env.ledger.SetPaymentStatus(env.ctx, repay.ID, domain.PaymentStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusApproved, updated.Status)
	assert.Equal(t, []repositories.Collection{repositories.CollectionPayments}, env.changes.touched())
}

// Issue 10000, approve a 3000 repayment, then let one cycle elapse.
func TestLedger_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")

	loan, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("10000")})
	require.NoError(t, err)

	repay, err := env.payments.Submit(env.ctx, client.ID, &SubmitPaymentInput{
		Amount:     dec("3000"),
		Category:   domain.CategoryLoanRepayment,
		ReceiptURL: "receipt://1",
		LoanID:     loan.ID,
	})
	require.NoError(t, err)
	_, err = env.ledger.SetPaymentStatus(env.ctx, repay.ID, domain.PaymentStatusApproved)
	require.NoError(t, err)
	requireDecimal(t, "7000", env.loan(t, loan.ID).Balance)

	// Not yet due: nothing accrues
	cycles, err := env.ledger.AccrueDueInterest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cycles)

	env.now = loan.ClosingDate.Add(time.Hour)
	cycles, err = env.ledger.AccrueDueInterest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cycles)

	accrued := env.loan(t, loan.ID)
	requireDecimal(t, "7350", accrued.Balance)
	requireDecimal(t, "850", accrued.InterestAmount)
	assert.Equal(t, loan.ClosingDate.AddDate(0, 3, 0), accrued.ClosingDate)

	// Running again in the same cycle is a no-op
	cycles, err = env.ledger.AccrueDueInterest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cycles)

	// Pay off the rest
	payoff, err := env.payments.Submit(env.ctx, client.ID, &SubmitPaymentInput{
		Amount:     dec("8000"),
		Category:   domain.CategoryLoanRepayment,
		ReceiptURL: "receipt://2",
		LoanID:     loan.ID,
	})
	require.NoError(t, err)
	_, err = env.ledger.SetPaymentStatus(env.ctx, payoff.ID, domain.PaymentStatusApproved)
	require.NoError(t, err)

	paid := env.loan(t, loan.ID)
	assert.True(t, paid.Balance.IsZero())
	assert.Equal(t, domain.LoanStatusPaid, paid.Status)

	// Settled loans never accrue again
	env.now = env.now.AddDate(1, 0, 0)
	cycles, err = env.ledger.AccrueDueInterest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cycles)
}

func TestLoans_AccrueBeforeListing(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")
	other := env.approvedClient(t, "Bob", "M-200")

	_, err := env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("1000")})
	require.NoError(t, err)
	env.advance(time.Hour)
	_, err = env.ledger.IssueLoan(env.ctx, &IssueLoanInput{ClientID: other.ID, Principal: dec("2000")})
	require.NoError(t, err)

	env.now = env.now.AddDate(0, 4, 0)
	loans, err := env.ledger.Loans(env.ctx)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, other.ID, loans[0].ClientID)
	requireDecimal(t, "2100", loans[0].Balance)

	mine, err := env.ledger.LoansForClient(env.ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	requireDecimal(t, "1050", mine[0].Balance)
}

func TestAccrueDueInterest_SingleCycleMode(t *testing.T) {
	env := newTestEnv(t)
	client := env.approvedClient(t, "Alice", "M-100")
	single := NewLedgerService(env.uow, false)

	loan, err := single.IssueLoan(env.ctx, &IssueLoanInput{ClientID: client.ID, Principal: dec("1000")})
	require.NoError(t, err)

	// Three full cycles have elapsed; only one is applied per run
	env.now = loan.ClosingDate.AddDate(0, 6, 1)
	cycles, err := single.AccrueDueInterest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cycles)
	requireDecimal(t, "1050", env.loan(t, loan.ID).Balance)
}
