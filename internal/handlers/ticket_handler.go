package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/service"
)

type TicketHandler struct {
	tickets       *service.TicketService
	events        *service.EventService
	notifications *service.NotificationService
	qrSecret      string
}

func NewTicketHandler(tickets *service.TicketService, events *service.EventService, notifications *service.NotificationService, qrSecret string) *TicketHandler {
	return &TicketHandler{tickets: tickets, events: events, notifications: notifications, qrSecret: qrSecret}
}

type TransferRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *TicketHandler) RSVP(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	ticket, err := h.tickets.RSVPFree(c.Request.Context(), userID, eventID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully.",
		"ticket":  ticket,
	})
}

func (h *TicketHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	tickets, err := h.tickets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *TicketHandler) Get(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), ticketID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if ticket.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Transfer(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	ticket, err := h.tickets.Transfer(c.Request.Context(), ticketID, userID, req.Email)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	if event, err := h.events.GetByID(c.Request.Context(), ticket.EventID); err == nil {
		h.notifications.Notify(c.Request.Context(), ticket.UserID, event.ID, models.NotifyUpdate,
			fmt.Sprintf("A ticket for %s was transferred to you.", event.Title),
			"/v1/tickets/"+ticket.ID.String())
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket transferred successfully.",
		"ticket":  ticket,
	})
}

func (h *TicketHandler) QRCode(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	ticket, err := h.tickets.GetByID(c.Request.Context(), ticketID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}
	if ticket.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	qrImage, err := qrcode.Encode(h.qrCodeData(ticket), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// Redeem marks a ticket as used at the door. Only the event organizer
// or an admin can redeem.
func (h *TicketHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	ticket, err := h.tickets.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), ticket.EventID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	role, _ := c.Get("role")
	if event.OrganizerID != userID && role != models.RoleAdmin {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to redeem tickets for this event.")
		return
	}

	if err := h.tickets.RedeemCode(c.Request.Context(), req.Code); err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Ticket redeemed successfully.",
		"ticket_id": ticket.ID,
	})
}

func (h *TicketHandler) qrCodeData(ticket *models.Ticket) string {
	data := fmt.Sprintf("%s:%s:%s", ticket.ID.String(), ticket.EventID.String(), ticket.RedemptionCode)
	mac := hmac.New(sha256.New, []byte(h.qrSecret))
	mac.Write([]byte(data))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("ticket:%s;event:%s;code:%s;signature:%s",
		ticket.ID.String(),
		ticket.EventID.String(),
		ticket.RedemptionCode,
		signature,
	)
}
