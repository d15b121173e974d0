// Package domain holds the business errors shared by services, repositories
// and handlers. Handlers map them to HTTP statuses in one place.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrKycNotFound        = errors.New("kyc request not found")
)

var (
	ErrEventFull          = errors.New("event is full")
	ErrTicketTypeSoldOut  = errors.New("ticket type is sold out")
	ErrAlreadyRegistered  = errors.New("user already holds a ticket for this event")
	ErrAlreadyTransferred = errors.New("ticket has already been transferred")
	ErrTicketUsed         = errors.New("ticket has already been used")
	ErrTicketNotActive    = errors.New("ticket is not active")
	ErrPricingLocked      = errors.New("cannot update pricing after tickets sold")
	ErrDuplicateUser      = errors.New("username or email already in use")
)

var (
	ErrNotEventOwner     = errors.New("not the event organizer")
	ErrNotTicketOwner    = errors.New("not the ticket owner")
	ErrNotInvited        = errors.New("not invited to this event")
	ErrRecipientNotFound = errors.New("transfer recipient not found")
)

var (
	ErrEventNotFree      = errors.New("event is not free")
	ErrEventNotPaid      = errors.New("event is free")
	ErrInvalidTicketType = errors.New("invalid ticket type or price")
)

var (
	ErrInvalidToken  = errors.New("invalid or expired invitation token")
	ErrEmailMismatch = errors.New("email does not match the invitation")
)

var (
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrVerificationFailed = errors.New("transaction verification failed")
	ErrUnknownTransaction = errors.New("unknown transaction reference")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("account is banned")
	ErrOrganizerRequired  = errors.New("only organizers can create paid events")
	ErrKycAlreadyReviewed = errors.New("kyc request has already been reviewed")
)

// ValidationError carries field-level messages for user-fixable input
// problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
