package booking

import (
	"context"
	"errors"

	"github.com/finbase/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the persistence boundary of the booking service. ReserveSeats is
// the only operation allowed to grow an event's reserved-seat counter, and it
// must do so as a single conditional write: the reservation either fits under
// the capacity ceiling and lands, or nothing changes. Implementations must
// make WithTx atomic so a failed ticket write rolls the counter back.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error
	GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	SaveTicket(ctx context.Context, ticket *models.Ticket) error
	DeleteTicket(ctx context.Context, ticket *models.Ticket) error
	ReserveSeats(ctx context.Context, eventID uuid.UUID, count int) (bool, error)
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, count int) error
	SumReservedSeats(ctx context.Context, eventID uuid.UUID) (int, error)
	CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *GormStore) GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).Where("id = ?", ticketID).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *GormStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).Preload("Event").Order("purchase_date DESC").Find(&tickets).Error
	return tickets, err
}

func (s *GormStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.db.WithContext(ctx).Create(ticket).Error
}

func (s *GormStore) SaveTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.db.WithContext(ctx).Save(ticket).Error
}

func (s *GormStore) DeleteTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.db.WithContext(ctx).Delete(ticket).Error
}

// ReserveSeats grows the event's reserved-seat counter by count, but only if
// the result still fits under the capacity ceiling. The guard and the
// increment are one UPDATE, so two concurrent purchases can never both pass
// the check against the same remaining seats. Returns false when the
// reservation does not fit.
func (s *GormStore) ReserveSeats(ctx context.Context, eventID uuid.UUID, count int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND bookings + ? <= capacity", eventID, count).
		UpdateColumn("bookings", gorm.Expr("bookings + ?", count))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseSeats returns seats to the pool after a cancellation or a shrinking
// update. The counter never drops below zero as long as releases mirror
// earlier reservations, which WithTx guarantees.
func (s *GormStore) ReleaseSeats(ctx context.Context, eventID uuid.UUID, count int) error {
	return s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		UpdateColumn("bookings", gorm.Expr("bookings - ?", count)).Error
}

// SumReservedSeats recomputes the reserved total from the ticket rows. It is
// a read-side query for event stats; enforcement goes through ReserveSeats.
// Finished tickets still hold their seats, only cancelled ones are excluded.
func (s *GormStore) SumReservedSeats(ctx context.Context, eventID uuid.UUID) (int, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("event_id = ? AND status <> ?", eventID, models.TicketStatusCancelled).
		Select("COALESCE(SUM(num_tickets), 0)").
		Scan(&total).Error
	return int(total), err
}

func (s *GormStore) CountAttendees(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("event_id = ? AND status <> ?", eventID, models.TicketStatusCancelled).
		Distinct("owner_id").
		Count(&count).Error
	return count, err
}
