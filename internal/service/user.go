package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

// UserService handles registration and login. Registering with an
// invitation token also redeems it, which issues the invitee's free
// ticket.
type UserService struct {
	users       UserRepository
	invitations *InvitationService
	log         *slog.Logger
}

func NewUserService(users UserRepository, invitations *InvitationService, log *slog.Logger) *UserService {
	return &UserService{users: users, invitations: invitations, log: log}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	InviteToken string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.InviteToken != "" {
		// The account exists either way; a stale token only costs the
		// free ticket, it does not undo the registration.
		if _, err := s.invitations.Redeem(ctx, input.InviteToken, user.Email, user.ID); err != nil {
			s.log.Warn("invitation redeem on register failed",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// SetStatus is the admin operation changing a user's role and ban flag.
func (s *UserService) SetStatus(ctx context.Context, userID uuid.UUID, role models.Role, banned bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.IsBanned = banned
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
