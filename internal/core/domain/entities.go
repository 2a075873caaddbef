package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the system
type Role string

const (
	RoleManagerPrimary   Role = "ADMIN1"
	RoleManagerSecondary Role = "ADMIN2"
	RoleClient           Role = "CLIENT"
)

// IsManager reports whether the role may approve payments and registrations
func (r Role) IsManager() bool {
	return r == RoleManagerPrimary || r == RoleManagerSecondary
}

// UserStatus is the registration state of a user
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusApproved UserStatus = "APPROVED"
	UserStatusRejected UserStatus = "REJECTED"
)

// PaymentStatus is the review state of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// IsValid reports whether s is one of the known payment states
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected:
		return true
	}
	return false
}

// PaymentCategory classifies what a payment was made for
type PaymentCategory string

const (
	CategoryContribution  PaymentCategory = "Contribution"
	CategorySaving        PaymentCategory = "Saving"
	CategoryDiamondSaving PaymentCategory = "Diamond Saving"
	CategoryLoanRepayment PaymentCategory = "Loan Repayment"
)

// PaymentCategories lists every category in display order
var PaymentCategories = []PaymentCategory{
	CategoryContribution,
	CategorySaving,
	CategoryDiamondSaving,
	CategoryLoanRepayment,
}

// IsValid reports whether c is one of the known categories
func (c PaymentCategory) IsValid() bool {
	for _, known := range PaymentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// LoanStatus is the repayment state of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "ACTIVE"
	LoanStatusPaid   LoanStatus = "PAID"
)

// RecipientAll addresses a notification to every user
const RecipientAll = "ALL"

// User represents a registered client or manager
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	MembNo           string     `json:"memb_no,omitempty"`
	Password         string     `json:"password,omitempty"` // bcrypt hash
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	IsFirstLogin     bool       `json:"is_first_login"`
	RegistrationDate time.Time  `json:"registration_date"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// HasMembNo compares member numbers the way login does (case-insensitive)
func (u User) HasMembNo(membNo string) bool {
	return u.MembNo != "" && strings.EqualFold(u.MembNo, strings.TrimSpace(membNo))
}

// Payment is a client's claimed transfer awaiting or past review
type Payment struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Amount     decimal.Decimal `json:"amount"`
	Category   PaymentCategory `json:"type"`
	Date       time.Time       `json:"date"`
	ReceiptURL string          `json:"receipt_url"`
	Status     PaymentStatus   `json:"status"`
	LoanID     string          `json:"loan_id,omitempty"`
}

// IsLoanRepayment reports whether approving p should reduce a loan balance
func (p Payment) IsLoanRepayment() bool {
	return p.Category == CategoryLoanRepayment && p.LoanID != ""
}

// Loan is a client's outstanding debt with periodic interest
type Loan struct {
	ID                 string          `json:"id"`
	ClientID           string          `json:"client_id"`
	ClientName         string          `json:"client_name"`
	Amount             decimal.Decimal `json:"amount"`
	DisbursementAmount decimal.Decimal `json:"disbursement_amount"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	Balance            decimal.Decimal `json:"balance"`
	OpeningDate        time.Time       `json:"opening_date"`
	ClosingDate        time.Time       `json:"closing_date"`
	Status             LoanStatus      `json:"status"`
}

// IsSettled reports whether the loan has reached its terminal state
func (l Loan) IsSettled() bool {
	return l.Status == LoanStatusPaid || l.Balance.Sign() <= 0
}

// Notification is an append-only message to one user or to everyone
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	Date        time.Time `json:"date"`
}

// IsFor reports whether userID should see the notification
func (n Notification) IsFor(userID string) bool {
	return n.RecipientID == RecipientAll || n.RecipientID == userID
}

// Settings is the global application settings record
type Settings struct {
	AutomatedRemindersEnabled bool `json:"automated_reminders_enabled"`
}

// DefaultSettings is used until a manager saves settings for the first time
func DefaultSettings() Settings {
	return Settings{AutomatedRemindersEnabled: true}
}
