package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/finbase/eventhub/internal/models"
	"github.com/google/uuid"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotYetOccurred = errors.New("this event has not taken place yet")
	ErrNoTicketHeld        = errors.New("you do not hold a ticket for this event")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

type Store interface {
	GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	HasTicket(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CreateReview(ctx context.Context, review *models.Review) error
}

// Service gates review creation: the event must already have taken place and
// the reviewer must hold at least one ticket for it.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

type CreateInput struct {
	EventID uuid.UUID
	UserID  uuid.UUID
	Rating  int
	Comment string
}

func (s *Service) CreateReview(ctx context.Context, in CreateInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	event, err := s.store.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}

	if event.Date.After(s.now()) {
		return nil, ErrEventNotYetOccurred
	}

	held, err := s.store.HasTicket(ctx, in.EventID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrNoTicketHeld
	}

	review := &models.Review{
		ID:      uuid.New(),
		EventID: in.EventID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
