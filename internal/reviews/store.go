package reviews

import (
	"context"
	"errors"

	"github.com/finbase/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
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

// HasTicket reports whether the user holds a surviving ticket for the event.
// Reviews are only possible after the event, so by then the ticket is usually
// finished rather than active; only cancelled tickets disqualify.
func (s *GormStore) HasTicket(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("event_id = ? AND owner_id = ? AND status <> ?", eventID, userID, models.TicketStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}
