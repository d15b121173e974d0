package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/payment"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// In-memory fakes implementing the repository ports. The seat ledgers are
// mutex-guarded so concurrency tests exercise the same conditional-update
// contract as the SQL implementations.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[uuid.UUID]*models.Event)}
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	for i := range event.TicketTypes {
		if event.TicketTypes[i].ID == uuid.Nil {
			event.TicketTypes[i].ID = uuid.New()
		}
		event.TicketTypes[i].EventID = event.ID
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

// Save mirrors the SQL repository: the seat counter, invitee list and
// tier rows have their own write paths and are never touched here.
func (r *fakeEventRepo) Save(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	stored := *event
	stored.TicketsSold = current.TicketsSold
	stored.Invitees = current.Invitees
	stored.TicketTypes = current.TicketTypes
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) SetInvitees(_ context.Context, eventID uuid.UUID, invitees []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.Invitees = invitees
	return nil
}

func (r *fakeEventRepo) ReplaceTicketTypes(_ context.Context, eventID uuid.UUID, types []models.TicketType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	for i := range types {
		types[i].ID = uuid.New()
		types[i].EventID = eventID
	}
	event.TicketTypes = types
	return nil
}

func (r *fakeEventRepo) List(_ context.Context, category string, offset, limit int) ([]models.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if e.IsPrivate {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ReserveSeat(_ context.Context, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.TicketsSold >= event.Capacity {
		return domain.ErrEventFull
	}
	event.TicketsSold++
	return nil
}

func (r *fakeEventRepo) ReleaseSeat(_ context.Context, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.TicketsSold > 0 {
		event.TicketsSold--
	}
	return nil
}

func (r *fakeEventRepo) ReserveTypeSeat(_ context.Context, eventID uuid.UUID, typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		if tt.Name != typeName {
			continue
		}
		if tt.Capacity > 0 && tt.Sold >= tt.Capacity {
			return domain.ErrTicketTypeSoldOut
		}
		tt.Sold++
		return nil
	}
	return domain.ErrInvalidTicketType
}

func (r *fakeEventRepo) ReleaseTypeSeat(_ context.Context, eventID uuid.UUID, typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	for i := range event.TicketTypes {
		tt := &event.TicketTypes[i]
		if tt.Name == typeName && tt.Sold > 0 {
			tt.Sold--
		}
	}
	return nil
}

func (r *fakeEventRepo) AddInvitee(_ context.Context, eventID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	for _, id := range event.Invitees {
		if id == userID.String() {
			return nil
		}
	}
	event.Invitees = append(event.Invitees, userID.String())
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*models.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*models.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.UserID == ticket.UserID && t.EventID == ticket.EventID {
			return domain.ErrAlreadyRegistered
		}
	}
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.RedemptionCode == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrTicketNotFound
}

func (r *fakeTicketRepo) GetByTransactionRef(_ context.Context, txRef string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TransactionRef == txRef {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrUnknownTransaction
}

func (r *fakeTicketRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByEvent(_ context.Context, eventID uuid.UUID, offset, limit int) ([]models.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.tickets {
		if t.EventID == eventID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTicketRepo) SetPaymentStatus(_ context.Context, txRef string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TransactionRef == txRef {
			t.PaymentStatus = status
			return nil
		}
	}
	return domain.ErrUnknownTransaction
}

func (r *fakeTicketRepo) TransferOwnership(_ context.Context, ticketID, fromUserID, toUserID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok || ticket.UserID != fromUserID || ticket.Status == models.TicketUsed {
		return domain.ErrAlreadyTransferred
	}
	for _, t := range r.tickets {
		if t.UserID == toUserID && t.EventID == ticket.EventID {
			return domain.ErrAlreadyRegistered
		}
	}
	ticket.UserID = toUserID
	ticket.Status = models.TicketTransferred
	return nil
}

func (r *fakeTicketRepo) MarkUsed(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.RedemptionCode != code {
			continue
		}
		if t.Status == models.TicketUsed {
			return domain.ErrTicketUsed
		}
		if t.Status != models.TicketActive {
			return domain.ErrTicketNotActive
		}
		t.Status = models.TicketUsed
		return nil
	}
	return domain.ErrTicketNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		u.Username = strings.ToLower(u.Username)
		u.Email = strings.ToLower(u.Email)
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrDuplicateUser
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(usernameOrEmail)
	for _, u := range r.users {
		if u.Username == needle || u.Email == needle {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmails(_ context.Context, emails []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[strings.ToLower(e)] = true
	}
	var out []models.User
	for _, u := range r.users {
		if wanted[u.Email] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations map[uuid.UUID]*models.Invitation
}

func newFakeInvitationRepo(invitations ...*models.Invitation) *fakeInvitationRepo {
	r := &fakeInvitationRepo{invitations: make(map[uuid.UUID]*models.Invitation)}
	for _, inv := range invitations {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		r.invitations[inv.ID] = inv
	}
	return r
}

func (r *fakeInvitationRepo) FindByEvent(_ context.Context, eventID uuid.UUID, emails []string) ([]models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}
	var out []models.Invitation
	for _, inv := range r.invitations {
		if inv.EventID == eventID && wanted[inv.Email] {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) CreateBatch(_ context.Context, invitations []models.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range invitations {
		if invitations[i].ID == uuid.Nil {
			invitations[i].ID = uuid.New()
		}
		stored := invitations[i]
		r.invitations[stored.ID] = &stored
	}
	return nil
}

func (r *fakeInvitationRepo) Refresh(_ context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt
	inv.Status = models.InvitationPending
	return nil
}

func (r *fakeInvitationRepo) GetByToken(_ context.Context, token string) (*models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Token == token {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *fakeInvitationRepo) MarkAccepted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[id]
	if !ok || inv.Status != models.InvitationPending {
		return domain.ErrInvalidToken
	}
	inv.Status = models.InvitationAccepted
	return nil
}

func (r *fakeInvitationRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invitations {
		if inv.Status == models.InvitationPending && !now.Before(inv.ExpiresAt) {
			inv.Status = models.InvitationExpired
			n++
		}
	}
	return n, nil
}

type fakeKycRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*models.KycRequest
}

func newFakeKycRepo() *fakeKycRepo {
	return &fakeKycRepo{requests: make(map[uuid.UUID]*models.KycRequest)}
}

func (r *fakeKycRepo) Create(_ context.Context, req *models.KycRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *fakeKycRepo) GetByID(_ context.Context, id uuid.UUID) (*models.KycRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrKycNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeKycRepo) ListByStatus(_ context.Context, status models.KycStatus, offset, limit int) ([]models.KycRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.KycRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeKycRepo) Save(_ context.Context, req *models.KycRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return domain.ErrKycNotFound
	}
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendInvite(_ context.Context, to, eventTitle, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

type fakeProvider struct {
	checkoutURL  string
	chargeErr    error
	verifyStatus string
	verifyErr    error

	mu          sync.Mutex
	charges     []payment.ChargeRequest
	verifiedRef string
}

func (p *fakeProvider) InitiateCharge(_ context.Context, req payment.ChargeRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chargeErr != nil {
		return "", p.chargeErr
	}
	p.charges = append(p.charges, req)
	return p.checkoutURL, nil
}

func (p *fakeProvider) VerifyTransaction(_ context.Context, txRef string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.verifyErr != nil {
		return "", p.verifyErr
	}
	p.verifiedRef = txRef
	return p.verifyStatus, nil
}
