package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/service"
)

type InvitationHandler struct {
	invitations *service.InvitationService
	users       *service.UserService
}

func NewInvitationHandler(invitations *service.InvitationService, users *service.UserService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations, users: users}
}

type RedeemInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// Redeem claims an invitation for an already-registered account.
func (h *InvitationHandler) Redeem(c *gin.Context) {
	var req RedeemInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	eventID, err := h.invitations.Redeem(c.Request.Context(), req.Token, user.Email, userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Invitation redeemed successfully.",
		"event_id": eventID,
	})
}
