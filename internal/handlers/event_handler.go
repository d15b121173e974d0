package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/service"
)

type EventHandler struct {
	events *service.EventService
	users  *service.UserService
}

func NewEventHandler(events *service.EventService, users *service.UserService) *EventHandler {
	return &EventHandler{events: events, users: users}
}

func (h *EventHandler) Create(c *gin.Context) {
	var input service.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	organizer, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	result, err := h.events.Create(c.Request.Context(), organizer, input)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Event created successfully.",
		"event":           result.Event,
		"new_invitations": len(result.NewInvitations),
	})
}

func (h *EventHandler) Update(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var patch service.UpdateEventInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	result, err := h.events.Update(c.Request.Context(), eventID, userID, patch)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Event updated successfully.",
		"event":           result.Event,
		"new_invitations": len(result.NewInvitations),
	})
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	category := c.Query("category")

	events, total, err := h.events.List(c.Request.Context(), category, page, limit)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *EventHandler) MyEvents(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	events, err := h.events.ListByOrganizer(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Attendees(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	attendees, total, err := h.events.Attendees(c.Request.Context(), eventID, userID, page, limit)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendees": attendees,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}
