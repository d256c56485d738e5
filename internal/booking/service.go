package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/finbase/eventhub/internal/logger"
	"github.com/finbase/eventhub/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier receives a message for a user about activity on an event. Delivery
// happens after the purchase or cancellation has committed, so a failing
// notification never rolls back a booking.
type Notifier interface {
	EventActivity(ctx context.Context, userID, eventID uuid.UUID, message string)
}

// Service owns every mutation of ticket rows and of the reserved-seat
// counter. Handlers call it instead of touching the tables themselves, which
// keeps the capacity invariant and the pricing rule in one testable place.
type Service struct {
	store    Store
	notifier Notifier
	log      *logger.Logger
}

func NewService(store Store, notifier Notifier, log *logger.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

type PurchaseInput struct {
	EventID    uuid.UUID
	OwnerID    uuid.UUID
	NumTickets int
	Price      decimal.Decimal
}

// PurchaseTickets reserves seats and persists the ticket row in one
// transaction. When the requested count does not fit under the event's
// remaining capacity the reservation fails with ErrCapacityExceeded and no
// row is written.
func (s *Service) PurchaseTickets(ctx context.Context, in PurchaseInput) (*models.Ticket, error) {
	if in.NumTickets < 1 {
		return nil, ErrInvalidQuantity
	}

	var ticket *models.Ticket
	err := s.store.WithTx(ctx, func(tx Store) error {
		event, err := tx.GetEvent(ctx, in.EventID)
		if err != nil {
			return err
		}

		ok, err := tx.ReserveSeats(ctx, event.ID, in.NumTickets)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCapacityExceeded
		}

		now := time.Now()
		ticket = &models.Ticket{
			ID:           uuid.New(),
			EventID:      event.ID,
			OwnerID:      in.OwnerID,
			Price:        in.Price,
			NumTickets:   in.NumTickets,
			PurchaseDate: now,
			Timestamp:    now,
			Status:       models.TicketStatusActive,
		}
		return tx.CreateTicket(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("BOOKING", fmt.Sprintf("reserved %d seat(s) for event %s", in.NumTickets, in.EventID))
	if s.notifier != nil {
		s.notifier.EventActivity(ctx, in.OwnerID, in.EventID,
			fmt.Sprintf("Your purchase of %d ticket(s) is confirmed.", in.NumTickets))
	}
	return ticket, nil
}

type UpdateInput struct {
	TicketID     uuid.UUID
	ActingUserID uuid.UUID
	Price        *decimal.Decimal
	NumTickets   *int
}

// UpdateTicket changes a ticket's price and/or seat count. Price changes are
// restricted to the event's organizer. Seat-count changes apply only the
// delta against the reserved counter, so the record being modified is never
// counted against itself.
func (s *Service) UpdateTicket(ctx context.Context, in UpdateInput) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.store.WithTx(ctx, func(tx Store) error {
		t, err := tx.GetTicket(ctx, in.TicketID)
		if err != nil {
			return err
		}

		event, err := tx.GetEvent(ctx, t.EventID)
		if err != nil {
			return err
		}

		if in.ActingUserID != t.OwnerID && in.ActingUserID != event.OrganizerID {
			return ErrNotTicketOwner
		}

		if in.Price != nil && !in.Price.Equal(t.Price) {
			if in.ActingUserID != event.OrganizerID {
				return ErrUnauthorizedPriceChange
			}
			t.Price = *in.Price
		}

		if in.NumTickets != nil && *in.NumTickets != t.NumTickets {
			if *in.NumTickets < 1 {
				return ErrInvalidQuantity
			}
			delta := *in.NumTickets - t.NumTickets
			if delta > 0 {
				ok, err := tx.ReserveSeats(ctx, event.ID, delta)
				if err != nil {
					return err
				}
				if !ok {
					return ErrCapacityExceeded
				}
			} else {
				if err := tx.ReleaseSeats(ctx, event.ID, -delta); err != nil {
					return err
				}
			}
			t.NumTickets = *in.NumTickets
		}

		if err := tx.SaveTicket(ctx, t); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("BOOKING", fmt.Sprintf("ticket %s updated", in.TicketID))
	return ticket, nil
}

// CancelTicket deletes a ticket on behalf of its owner and returns the seats
// to the event's pool in the same transaction.
func (s *Service) CancelTicket(ctx context.Context, ticketID, actingUserID uuid.UUID) error {
	var eventID uuid.UUID
	err := s.store.WithTx(ctx, func(tx Store) error {
		t, err := tx.GetTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.OwnerID != actingUserID {
			return ErrNotTicketOwner
		}

		if err := tx.ReleaseSeats(ctx, t.EventID, t.NumTickets); err != nil {
			return err
		}

		t.Status = models.TicketStatusCancelled
		if err := tx.SaveTicket(ctx, t); err != nil {
			return err
		}
		eventID = t.EventID
		return tx.DeleteTicket(ctx, t)
	})
	if err != nil {
		return err
	}

	s.log.Info("BOOKING", fmt.Sprintf("ticket %s cancelled", ticketID))
	if s.notifier != nil {
		s.notifier.EventActivity(ctx, actingUserID, eventID, "Your ticket has been cancelled.")
	}
	return nil
}

// GetTicket loads a ticket and applies the lifecycle transition: once the
// event has taken place, an active ticket becomes finished. The flip happens
// lazily on read, there is no background job.
func (s *Service) GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Status == models.TicketStatusActive {
		event, err := s.store.GetEvent(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		if event.Date.Before(time.Now()) {
			ticket.Status = models.TicketStatusFinished
			if err := s.store.SaveTicket(ctx, ticket); err != nil {
				return nil, err
			}
		}
	}
	return ticket, nil
}

func (s *Service) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.store.ListTickets(ctx)
}

type EventStats struct {
	TicketsSold int   `json:"tickets_sold"`
	Available   int   `json:"available"`
	Attendees   int64 `json:"attendees"`
}

// EventStats reports seat usage for an event. TicketsSold comes from the
// row aggregate, Available from the counter; the two agree because every
// counter change is committed together with its ticket row.
func (s *Service) EventStats(ctx context.Context, eventID uuid.UUID) (*EventStats, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sold, err := s.store.SumReservedSeats(ctx, eventID)
	if err != nil {
		return nil, err
	}

	attendees, err := s.store.CountAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventStats{
		TicketsSold: sold,
		Available:   event.Capacity - event.Bookings,
		Attendees:   attendees,
	}, nil
}
