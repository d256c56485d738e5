package notify

import (
	"context"
	"fmt"

	"github.com/finbase/eventhub/internal/logger"
	"github.com/finbase/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service records notifications for users and hands them to the mailer.
// It implements booking.Notifier.
type Service struct {
	db     *gorm.DB
	mailer *Mailer
	log    *logger.Logger
}

func NewService(db *gorm.DB, mailer *Mailer, log *logger.Logger) *Service {
	return &Service{db: db, mailer: mailer, log: log}
}

// EventActivity persists a notification row and sends the matching email.
// Failures are logged and swallowed: notifications ride along with bookings
// but must never fail them.
func (s *Service) EventActivity(ctx context.Context, userID, eventID uuid.UUID, message string) {
	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		s.log.Error("NOTIFY", fmt.Sprintf("failed to store notification for user %s: %v", userID, err))
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		s.log.Error("NOTIFY", fmt.Sprintf("failed to load user %s for email: %v", userID, err))
		return
	}
	s.mailer.Send("Event activity", message, user.Email)
}
