package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger wraps exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failure")
)

// Auth errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account pending manager approval")
	ErrAccountRejected    = errors.New("account has been deactivated")
)

// NotFound errors
var (
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrPaymentNotFound = fmt.Errorf("%w: payment", ErrNotFound)
	ErrLoanNotFound    = fmt.Errorf("%w: loan", ErrNotFound)
)

// Validation errors
var (
	ErrInvalidPrincipal     = fmt.Errorf("%w: loan principal must be greater than zero", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidCategory      = fmt.Errorf("%w: unknown payment category", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: unknown payment status", ErrValidation)
	ErrMissingReceipt       = fmt.Errorf("%w: receipt is required", ErrValidation)
	ErrMissingLoanReference = fmt.Errorf("%w: loan repayment requires a loan", ErrValidation)
	ErrEmptyMessage         = fmt.Errorf("%w: message is required", ErrValidation)
	ErrInvalidName          = fmt.Errorf("%w: name and email are required", ErrValidation)
	ErrWeakPassword         = fmt.Errorf("%w: password is too short", ErrValidation)
	ErrMembNoRequired       = fmt.Errorf("%w: member number is required", ErrValidation)
	ErrMembNoTaken          = fmt.Errorf("%w: member number already assigned", ErrValidation)
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrUserNotPending       = fmt.Errorf("%w: user is not pending approval", ErrValidation)
	ErrCannotDeleteSelf     = fmt.Errorf("%w: cannot delete your own account", ErrValidation)
	ErrNotAClient           = fmt.Errorf("%w: user is not an approved client", ErrValidation)
)

// Persistence wraps a store failure so callers can match ErrPersistence
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
