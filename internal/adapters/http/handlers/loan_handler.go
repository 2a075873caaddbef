package handlers

import (
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	ledgerService *services.LedgerService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(ledgerService *services.LedgerService) *LoanHandler {
	return &LoanHandler{ledgerService: ledgerService}
}

// IssueLoanRequest represents issue loan request body
type IssueLoanRequest struct {
	ClientID  string          `json:"client_id"`
	Principal decimal.Decimal `json:"principal" swaggertype:"string" example:"10000"`
}

// List lists every loan
// @Summary List loans
// @Description Every loan, newest first, with interest brought up to date (Managers only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param client_id query string false "Client ID"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	var (
		loans []domain.Loan
		err   error
	)
	if clientID := c.Query("client_id"); clientID != "" {
		loans, err = h.ledgerService.LoansForClient(c.UserContext(), clientID)
	} else {
		loans, err = h.ledgerService.Loans(c.UserContext())
	}
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
	})
}

// Issue issues a new loan
// @Summary Issue loan
// @Description 5% of the principal is taken upfront; the client owes the full principal (Managers only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IssueLoanRequest true "Loan"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Issue(c *fiber.Ctx) error {
	var req IssueLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.ledgerService.IssueLoan(c.UserContext(), &services.IssueLoanInput{
		ClientID:  req.ClientID,
		Principal: req.Principal,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Loan issued", fiber.Map{
		"loan": loan,
	})
}

// Accrue runs the interest accrual now
// @Summary Accrue interest
// @Description Apply interest to every overdue active loan (Managers only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/accrue [post]
func (h *LoanHandler) Accrue(c *fiber.Ctx) error {
	cycles, err := h.ledgerService.AccrueDueInterest(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Interest accrual completed", fiber.Map{
		"cycles_applied": cycles,
	})
}
