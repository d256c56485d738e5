package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbase/eventhub/internal/booking"
	"github.com/finbase/eventhub/internal/logger"
	"github.com/finbase/eventhub/internal/models"
)

// fakeStore is an in-memory Store whose ReserveSeats has the same
// check-and-increment-as-one-step semantics as the SQL conditional update.
type fakeStore struct {
	mu      sync.Mutex
	events  map[uuid.UUID]*models.Event
	tickets map[uuid.UUID]*models.Ticket
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:  make(map[uuid.UUID]*models.Event),
		tickets: make(map[uuid.UUID]*models.Ticket),
	}
}

func (f *fakeStore) addEvent(event models.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := event
	f.events[e.ID] = &e
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx booking.Store) error) error {
	return fn(f)
}

func (f *fakeStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, booking.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeStore) GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[ticketID]
	if !ok {
		return nil, booking.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tickets := make([]models.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		tickets = append(tickets, *t)
	}
	return tickets, nil
}

func (f *fakeStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeStore) SaveTicket(ctx context.Context, ticket *models.Ticket) error {
	return f.CreateTicket(ctx, ticket)
}

func (f *fakeStore) DeleteTicket(ctx context.Context, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tickets, ticket.ID)
	return nil
}

func (f *fakeStore) ReserveSeats(ctx context.Context, eventID uuid.UUID, count int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return false, nil
	}
	if e.Bookings+count > e.Capacity {
		return false, nil
	}
	e.Bookings += count
	return true, nil
}

func (f *fakeStore) ReleaseSeats(ctx context.Context, eventID uuid.UUID, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[eventID]; ok {
		e.Bookings -= count
	}
	return nil
}

func (f *fakeStore) SumReservedSeats(ctx context.Context, eventID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, t := range f.tickets {
		if t.EventID == eventID && t.Status != models.TicketStatusCancelled {
			total += t.NumTickets
		}
	}
	return total, nil
}

func (f *fakeStore) CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owners := make(map[uuid.UUID]struct{})
	for _, t := range f.tickets {
		if t.EventID == eventID && t.Status != models.TicketStatusCancelled {
			owners[t.OwnerID] = struct{}{}
		}
	}
	return int64(len(owners)), nil
}

func (f *fakeStore) bookings(eventID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID].Bookings
}

func (f *fakeStore) ticketCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets)
}

func newTestService(store booking.Store) *booking.Service {
	return booking.NewService(store, nil, logger.NewLogger())
}

func newEvent(capacity int, organizerID uuid.UUID) models.Event {
	return models.Event{
		ID:          uuid.New(),
		Title:       "Go Conference",
		Description: "A conference about Go.",
		Date:        time.Now().AddDate(0, 1, 0),
		Location:    "Kyiv",
		Category:    "tech",
		Capacity:    capacity,
		OrganizerID: organizerID,
	}
}

func TestPurchaseTicketsCapacityScenario(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	event := newEvent(10, uuid.New())
	store.addEvent(event)
	buyer := uuid.New()
	price := decimal.NewFromInt(25)

	// 7 of 10 fits.
	_, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: buyer, NumTickets: 7, Price: price,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, store.bookings(event.ID))

	// 4 more does not fit (only 3 remain) and must leave no row behind.
	_, err = svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 4, Price: price,
	})
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	assert.Equal(t, 7, store.bookings(event.ID))
	assert.Equal(t, 1, store.ticketCount())

	// 3 exactly fills the event.
	_, err = svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 3, Price: price,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, store.bookings(event.ID))

	sold, err := store.SumReservedSeats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, sold)
}

func TestPurchaseTicketsInvalidQuantity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	event := newEvent(10, uuid.New())
	store.addEvent(event)

	_, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 0, Price: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, booking.ErrInvalidQuantity)
}

func TestPurchaseTicketsEventNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: uuid.New(), OwnerID: uuid.New(), NumTickets: 1, Price: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, booking.ErrEventNotFound)
}

func TestPriceChangeAuthorization(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	organizer := uuid.New()
	buyer := uuid.New()
	event := newEvent(10, organizer)
	store.addEvent(event)

	ticket, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: buyer, NumTickets: 2, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(40)

	// The buyer may not touch the price.
	_, err = svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: buyer, Price: &newPrice,
	})
	assert.ErrorIs(t, err, booking.ErrUnauthorizedPriceChange)

	stored, err := svc.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(25)))

	// The organizer may.
	updated, err := svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: organizer, Price: &newPrice,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
}

func TestUpdateTicketSeatDelta(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	buyer := uuid.New()
	event := newEvent(10, uuid.New())
	store.addEvent(event)

	ticket, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: buyer, NumTickets: 7, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	// Growing to the full capacity works: only the delta of 3 is checked,
	// the ticket's own 7 seats are not counted against it again.
	ten := 10
	updated, err := svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: buyer, NumTickets: &ten,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.NumTickets)
	assert.Equal(t, 10, store.bookings(event.ID))

	// Any further growth is rejected.
	eleven := 11
	_, err = svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: buyer, NumTickets: &eleven,
	})
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)

	// Shrinking releases the difference.
	four := 4
	_, err = svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: buyer, NumTickets: &four,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, store.bookings(event.ID))
}

func TestUpdateTicketRequiresOwnerOrOrganizer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	event := newEvent(10, uuid.New())
	store.addEvent(event)

	ticket, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 1, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	two := 2
	_, err = svc.UpdateTicket(context.Background(), booking.UpdateInput{
		TicketID: ticket.ID, ActingUserID: uuid.New(), NumTickets: &two,
	})
	assert.ErrorIs(t, err, booking.ErrNotTicketOwner)
}

func TestCancelTicketAuthorization(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	buyer := uuid.New()
	event := newEvent(10, uuid.New())
	store.addEvent(event)

	ticket, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: buyer, NumTickets: 2, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	// A stranger cannot cancel; the row stays.
	err = svc.CancelTicket(context.Background(), ticket.ID, uuid.New())
	assert.ErrorIs(t, err, booking.ErrNotTicketOwner)
	assert.Equal(t, 1, store.ticketCount())

	// The owner can; the row goes.
	err = svc.CancelTicket(context.Background(), ticket.ID, buyer)
	require.NoError(t, err)
	assert.Equal(t, 0, store.ticketCount())
}

func TestCancelTicketFreesCapacity(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	buyer := uuid.New()
	event := newEvent(5, uuid.New())
	store.addEvent(event)

	ticket, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: buyer, NumTickets: 5, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	// Event is full.
	_, err = svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 5, Price: decimal.NewFromInt(25),
	})
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)

	require.NoError(t, svc.CancelTicket(context.Background(), ticket.ID, buyer))

	// All five seats are available again.
	_, err = svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 5, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, store.bookings(event.ID))
}

func TestConcurrentPurchasesDoNotOversell(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	event := newEvent(5, uuid.New())
	store.addEvent(event)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
				EventID: event.ID, OwnerID: uuid.New(), NumTickets: 4, Price: decimal.NewFromInt(25),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.LessOrEqual(t, store.bookings(event.ID), 5)
}

func TestGetTicketFinishesAfterEvent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	buyer := uuid.New()
	upcoming := newEvent(10, uuid.New())
	store.addEvent(upcoming)

	past := newEvent(10, uuid.New())
	past.Date = time.Now().AddDate(0, 0, -1)
	store.addEvent(past)

	before, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: upcoming.ID, OwnerID: buyer, NumTickets: 2, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	after, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: past.ID, OwnerID: buyer, NumTickets: 2, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	// A ticket for an upcoming event stays active.
	got, err := svc.GetTicket(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusActive, got.Status)

	// Once the event has taken place the read flips the ticket to finished
	// and the change is persisted.
	got, err = svc.GetTicket(context.Background(), after.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusFinished, got.Status)

	stored, err := store.GetTicket(context.Background(), after.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusFinished, stored.Status)

	// Finished tickets keep their seats in the totals.
	sold, err := store.SumReservedSeats(context.Background(), past.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sold)
}

func TestEventStats(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	event := newEvent(10, uuid.New())
	store.addEvent(event)

	buyer := uuid.New()
	for _, n := range []int{3, 2} {
		_, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
			EventID: event.ID, OwnerID: buyer, NumTickets: n, Price: decimal.NewFromInt(25),
		})
		require.NoError(t, err)
	}
	_, err := svc.PurchaseTickets(context.Background(), booking.PurchaseInput{
		EventID: event.ID, OwnerID: uuid.New(), NumTickets: 1, Price: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	stats, err := svc.EventStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TicketsSold)
	assert.Equal(t, 4, stats.Available)
	assert.Equal(t, int64(2), stats.Attendees)
}
