package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tewodrosk/tiketa/internal/domain"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithDomainError maps service-layer errors onto HTTP statuses.
// Unrecognized errors surface as 500 without leaking internals.
func RespondWithDomainError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}

	RespondWithError(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrInvitationNotFound),
		errors.Is(err, domain.ErrKycNotFound),
		errors.Is(err, domain.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrTicketTypeSoldOut),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyTransferred),
		errors.Is(err, domain.ErrTicketUsed),
		errors.Is(err, domain.ErrTicketNotActive),
		errors.Is(err, domain.ErrPricingLocked),
		errors.Is(err, domain.ErrDuplicateUser),
		errors.Is(err, domain.ErrKycAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotEventOwner),
		errors.Is(err, domain.ErrNotTicketOwner),
		errors.Is(err, domain.ErrNotInvited),
		errors.Is(err, domain.ErrUserBanned),
		errors.Is(err, domain.ErrOrganizerRequired):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrEmailMismatch),
		errors.Is(err, domain.ErrEventNotFree),
		errors.Is(err, domain.ErrEventNotPaid),
		errors.Is(err, domain.ErrInvalidTicketType),
		errors.Is(err, domain.ErrUnknownTransaction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVerificationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
