package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tewodrosk/tiketa/internal/domain"
	"github.com/tewodrosk/tiketa/internal/models"
)

func TestRSVPFree_PublicEvent(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 5}
	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo()
	svc := NewTicketService(ticketRepo, eventRepo, newFakeUserRepo(), testLogger())
	userID := uuid.New()

	ticket, err := svc.RSVPFree(context.Background(), userID, event.ID)
	require.NoError(t, err)

	assert.Equal(t, userID, ticket.UserID)
	assert.Equal(t, models.StandardType, ticket.Type)
	assert.Equal(t, models.PaymentCompleted, ticket.PaymentStatus)
	assert.Equal(t, models.TicketActive, ticket.Status)
	assert.Equal(t, userID, ticket.OriginalOwnerID)
	assert.NotEmpty(t, ticket.RedemptionCode)

	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, 1, updated.TicketsSold)
}

func TestRSVPFree_PaidEventRejected(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: false, Capacity: 5}
	svc := NewTicketService(newFakeTicketRepo(), newFakeEventRepo(event), newFakeUserRepo(), testLogger())

	_, err := svc.RSVPFree(context.Background(), uuid.New(), event.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFree)
}

func TestRSVPFree_PrivateEventRequiresInvitation(t *testing.T) {
	invited := uuid.New()
	event := &models.Event{
		ID:        uuid.New(),
		IsFree:    true,
		IsPrivate: true,
		Capacity:  5,
		Invitees:  []string{invited.String()},
	}
	eventRepo := newFakeEventRepo(event)
	svc := NewTicketService(newFakeTicketRepo(), eventRepo, newFakeUserRepo(), testLogger())

	_, err := svc.RSVPFree(context.Background(), uuid.New(), event.ID)
	assert.ErrorIs(t, err, domain.ErrNotInvited)

	_, err = svc.RSVPFree(context.Background(), invited, event.ID)
	assert.NoError(t, err)
}

func TestIssueFree_EventFull(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 1, TicketsSold: 1}
	svc := NewTicketService(newFakeTicketRepo(), newFakeEventRepo(event), newFakeUserRepo(), testLogger())

	_, err := svc.IssueFree(context.Background(), uuid.New(), event.ID)
	assert.ErrorIs(t, err, domain.ErrEventFull)
}

func TestIssueFree_DuplicateReleasesSeat(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 5}
	eventRepo := newFakeEventRepo(event)
	svc := NewTicketService(newFakeTicketRepo(), eventRepo, newFakeUserRepo(), testLogger())
	userID := uuid.New()

	_, err := svc.IssueFree(context.Background(), userID, event.ID)
	require.NoError(t, err)

	_, err = svc.IssueFree(context.Background(), userID, event.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	// The failed attempt must not leak its reservation.
	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, 1, updated.TicketsSold)
}

func TestIssuePaid_TierValidation(t *testing.T) {
	event := &models.Event{
		ID:       uuid.New(),
		IsFree:   false,
		Capacity: 10,
		TicketTypes: []models.TicketType{
			{Name: "vip", Price: 500, Capacity: 2},
		},
	}
	svc := NewTicketService(newFakeTicketRepo(), newFakeEventRepo(event), newFakeUserRepo(), testLogger())

	_, err := svc.IssuePaid(context.Background(), uuid.New(), event.ID, "regular", 500, "tx-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTicketType)

	_, err = svc.IssuePaid(context.Background(), uuid.New(), event.ID, "vip", 300, "tx-2")
	assert.ErrorIs(t, err, domain.ErrInvalidTicketType)
}

func TestIssuePaid_TypeSoldOutReleasesNothing(t *testing.T) {
	event := &models.Event{
		ID:       uuid.New(),
		IsFree:   false,
		Capacity: 10,
		TicketTypes: []models.TicketType{
			{Name: "vip", Price: 500, Capacity: 1, Sold: 1},
		},
	}
	eventRepo := newFakeEventRepo(event)
	svc := NewTicketService(newFakeTicketRepo(), eventRepo, newFakeUserRepo(), testLogger())

	_, err := svc.IssuePaid(context.Background(), uuid.New(), event.ID, "vip", 500, "tx-1")
	assert.ErrorIs(t, err, domain.ErrTicketTypeSoldOut)

	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, 0, updated.TicketsSold)
}

func TestIssuePaid_EventFullReleasesTypeSeat(t *testing.T) {
	event := &models.Event{
		ID:          uuid.New(),
		IsFree:      false,
		Capacity:    1,
		TicketsSold: 1,
		TicketTypes: []models.TicketType{
			{Name: "vip", Price: 500, Capacity: 5},
		},
	}
	eventRepo := newFakeEventRepo(event)
	svc := NewTicketService(newFakeTicketRepo(), eventRepo, newFakeUserRepo(), testLogger())

	_, err := svc.IssuePaid(context.Background(), uuid.New(), event.ID, "vip", 500, "tx-1")
	assert.ErrorIs(t, err, domain.ErrEventFull)

	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, 0, updated.TicketTypes[0].Sold)
}

func TestIssuePaid_CreatesPendingTicket(t *testing.T) {
	event := &models.Event{
		ID:       uuid.New(),
		IsFree:   false,
		Capacity: 10,
		TicketTypes: []models.TicketType{
			{Name: "vip", Price: 500, Capacity: 2},
		},
	}
	eventRepo := newFakeEventRepo(event)
	svc := NewTicketService(newFakeTicketRepo(), eventRepo, newFakeUserRepo(), testLogger())
	userID := uuid.New()

	ticket, err := svc.IssuePaid(context.Background(), userID, event.ID, "vip", 500, "tx-1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, ticket.PaymentStatus)
	assert.Equal(t, "vip", ticket.Type)
	assert.Equal(t, 500, ticket.Price)
	assert.Equal(t, "tx-1", ticket.TransactionRef)

	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, 1, updated.TicketsSold)
	assert.Equal(t, 1, updated.TicketTypes[0].Sold)
}

func TestTransfer_ChainAndOwnership(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 10}
	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo()
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	carol := &models.User{ID: uuid.New(), Username: "carol", Email: "carol@example.com"}
	users := newFakeUserRepo(alice, bob, carol)
	svc := NewTicketService(ticketRepo, eventRepo, users, testLogger())

	ticket, err := svc.IssueFree(context.Background(), alice.ID, event.ID)
	require.NoError(t, err)

	transferred, err := svc.Transfer(context.Background(), ticket.ID, alice.ID, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, transferred.UserID)
	assert.Equal(t, models.TicketTransferred, transferred.Status)
	assert.Equal(t, alice.ID, transferred.OriginalOwnerID)

	// The original owner lost the right to move it again.
	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "carol@example.com")
	assert.ErrorIs(t, err, domain.ErrNotTicketOwner)

	// The new holder can pass it on.
	again, err := svc.Transfer(context.Background(), ticket.ID, bob.ID, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, again.UserID)
	assert.Equal(t, alice.ID, again.OriginalOwnerID)
}

func TestTransfer_UsedTicketRejected(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 10}
	ticketRepo := newFakeTicketRepo()
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	svc := NewTicketService(ticketRepo, newFakeEventRepo(event), newFakeUserRepo(alice, bob), testLogger())

	ticket, err := svc.IssueFree(context.Background(), alice.ID, event.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RedeemCode(context.Background(), ticket.RedemptionCode))

	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrTicketUsed)
}

func TestTransfer_RecipientChecks(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 10}
	ticketRepo := newFakeTicketRepo()
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	svc := NewTicketService(ticketRepo, newFakeEventRepo(event), newFakeUserRepo(alice, bob), testLogger())

	ticket, err := svc.IssueFree(context.Background(), alice.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)

	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "alice@example.com")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	// Bob already holds his own ticket for the event.
	_, err = svc.IssueFree(context.Background(), bob.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestRedeemCode_OneWay(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 10}
	svc := NewTicketService(newFakeTicketRepo(), newFakeEventRepo(event), newFakeUserRepo(), testLogger())

	ticket, err := svc.IssueFree(context.Background(), uuid.New(), event.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RedeemCode(context.Background(), ticket.RedemptionCode))
	assert.ErrorIs(t, svc.RedeemCode(context.Background(), ticket.RedemptionCode), domain.ErrTicketUsed)
	assert.ErrorIs(t, svc.RedeemCode(context.Background(), "no-such-code"), domain.ErrTicketNotFound)
}

func TestRedeemCode_TransferredTicketRejectedDistinctly(t *testing.T) {
	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: 10}
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	svc := NewTicketService(newFakeTicketRepo(), newFakeEventRepo(event), newFakeUserRepo(alice, bob), testLogger())

	ticket, err := svc.IssueFree(context.Background(), alice.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Transfer(context.Background(), ticket.ID, alice.ID, "bob@example.com")
	require.NoError(t, err)

	// The ticket now sits in the transferred state, not used; the door
	// rejection says so instead of claiming a prior redemption.
	err = svc.RedeemCode(context.Background(), ticket.RedemptionCode)
	assert.ErrorIs(t, err, domain.ErrTicketNotActive)
	assert.NotErrorIs(t, err, domain.ErrTicketUsed)
}

func TestIssueFree_ConcurrentClaimsNeverOversell(t *testing.T) {
	const capacity = 7
	const claimants = 40

	event := &models.Event{ID: uuid.New(), IsFree: true, Capacity: capacity}
	eventRepo := newFakeEventRepo(event)
	ticketRepo := newFakeTicketRepo()
	svc := NewTicketService(ticketRepo, eventRepo, newFakeUserRepo(), testLogger())

	var wg sync.WaitGroup
	results := make(chan error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueFree(context.Background(), uuid.New(), event.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var issued, full int
	for err := range results {
		if err == nil {
			issued++
			continue
		}
		require.ErrorIs(t, err, domain.ErrEventFull)
		full++
	}

	assert.Equal(t, capacity, issued)
	assert.Equal(t, claimants-capacity, full)

	updated, _ := eventRepo.GetByID(context.Background(), event.ID)
	assert.Equal(t, capacity, updated.TicketsSold)
}
