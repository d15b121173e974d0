package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/service"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type UserStatusRequest struct {
	Role     string `json:"role" binding:"required,oneof=user organizer admin"`
	IsBanned bool   `json:"is_banned"`
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.users.SetStatus(c.Request.Context(), targetID, models.Role(req.Role), req.IsBanned)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated.",
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"role":      user.Role,
			"is_banned": user.IsBanned,
		},
	})
}
