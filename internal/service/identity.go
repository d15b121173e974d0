package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RegisteredInvitee is an invitee email resolved to an existing account.
type RegisteredInvitee struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// IdentityService splits invitee email lists into registered accounts and
// bare emails with a single batched directory lookup.
type IdentityService struct {
	users UserRepository
}

func NewIdentityService(users UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve partitions emails: every input ends up in exactly one of the two
// returned lists. Emails are lowercased to match the directory's stored
// form and de-duplicated before the lookup. No side effects.
func (s *IdentityService) Resolve(ctx context.Context, emails []string) ([]RegisteredInvitee, []string, error) {
	normalized := normalizeEmails(emails)
	if len(normalized) == 0 {
		return nil, nil, nil
	}

	users, err := s.users.FindByEmails(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve invitees: %w", err)
	}

	byEmail := make(map[string]RegisteredInvitee, len(users))
	for _, u := range users {
		byEmail[u.Email] = RegisteredInvitee{UserID: u.ID, Username: u.Username, Email: u.Email}
	}

	var registered []RegisteredInvitee
	var unregistered []string
	for _, email := range normalized {
		if invitee, ok := byEmail[email]; ok {
			registered = append(registered, invitee)
		} else {
			unregistered = append(unregistered, email)
		}
	}
	return registered, unregistered, nil
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		e := strings.ToLower(strings.TrimSpace(email))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
