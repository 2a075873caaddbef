package handlers

import (
	"strings"

	"contribution-hub/internal/adapters/http/middleware"
	"contribution-hub/internal/core/domain"
	"contribution-hub/internal/core/services"
	"contribution-hub/internal/pkg/pagination"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	ledgerService  *services.LedgerService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, ledgerService *services.LedgerService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		ledgerService:  ledgerService,
	}
}

// SubmitPaymentRequest represents submit payment request body
type SubmitPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"150.00"`
	Type       string          `json:"type" example:"Contribution"`
	ReceiptURL string          `json:"receipt_url"`
	LoanID     string          `json:"loan_id"`
}

// UpdateStatusRequest represents update payment status request body
type UpdateStatusRequest struct {
	Status string `json:"status" example:"APPROVED"`
}

// Submit records a payment claim for the current client
// @Summary Submit payment
// @Description Submit a payment with its receipt; it stays PENDING until a manager reviews it (Clients only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitPaymentRequest true "Payment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	clientID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Submit(c.UserContext(), clientID, &services.SubmitPaymentInput{
		Amount:     req.Amount,
		Category:   domain.PaymentCategory(req.Type),
		ReceiptURL: req.ReceiptURL,
		LoanID:     req.LoanID,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Payment submitted", fiber.Map{
		"payment": payment,
	})
}

// My lists the current client's payments
// @Summary My payments
// @Description Payment history of the current client, newest first (Clients only)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} response.Response
// @Router /payments/my [get]
func (h *PaymentHandler) My(c *fiber.Ctx) error {
	clientID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	payments, err := h.paymentService.List(c.UserContext(), services.PaymentFilter{
		ClientID: clientID,
		Status:   domain.PaymentStatus(strings.ToUpper(c.Query("status"))),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}

// List lists every payment with pagination
// @Summary List payments
// @Description Every payment, newest first, paginated (Managers only)
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param client_id query string false "Client ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.paymentService.List(c.UserContext(), services.PaymentFilter{
		ClientID: c.Query("client_id"),
		Status:   domain.PaymentStatus(strings.ToUpper(c.Query("status"))),
		Category: domain.PaymentCategory(c.Query("type")),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", pagination.Page(payments, pagination.GetParams(c)))
}

// Get returns one payment
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	payment, err := h.paymentService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment retrieved successfully", fiber.Map{
		"payment": payment,
	})
}

// UpdateStatus approves, rejects or resets a payment
// @Summary Update payment status
// @Description Approving a loan repayment reduces the linked loan's balance (Managers only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id}/status [put]
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	status := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	payment, err := h.ledgerService.SetPaymentStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment status updated", fiber.Map{
		"payment": payment,
	})
}
