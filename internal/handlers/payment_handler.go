package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/payment"
	"github.com/tewodrosk/tiketa/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
	log      *slog.Logger
}

func NewPaymentHandler(payments *service.PaymentService, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

type ChargeRequest struct {
	EventID     string `json:"event_id" binding:"required,uuid"`
	TicketType  string `json:"ticket_type" binding:"required"`
	Amount      int    `json:"amount" binding:"required,min=1"`
	Currency    string `json:"currency"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

func (h *PaymentHandler) InitiateCharge(c *gin.Context) {
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	result, err := h.payments.InitiateCharge(c.Request.Context(), userID, service.ChargeInput{
		EventID:     mustParseUUID(req.EventID),
		TicketType:  req.TicketType,
		Amount:      req.Amount,
		Currency:    currency,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Webhook receives payment status callbacks. A bad signature is the
// only cause for rejection; once the sender is authenticated we always
// acknowledge so the provider does not retry forever, and rely on
// verification-driven reconciliation for anything that failed
// downstream.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	signature := c.GetHeader(payment.SignatureHeader)

	if err := h.payments.HandleWebhook(c.Request.Context(), rawBody, signature); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid webhook signature.")
			return
		}
		h.log.Error("webhook processing failed", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
