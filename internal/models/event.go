package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event carries two capacity fields: Capacity is the ceiling set by the
// organizer, Bookings is the number of seats currently reserved across all
// surviving tickets. Bookings is only ever changed through the conditional
// update in the booking store, never assigned directly.
type Event struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Title         string    `gorm:"not null;uniqueIndex:idx_events_organizer_title"`
	Description   string    `gorm:"not null"`
	Date          time.Time `gorm:"not null"`
	Location      string    `gorm:"not null"`
	Category      string    `gorm:"not null"`
	Capacity      int       `gorm:"not null"`
	Bookings      int       `gorm:"not null;default:0"`
	OrganizerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_events_organizer_title"`
	Organizer     User
	Tickets       []Ticket       `gorm:"constraint:OnDelete:CASCADE"`
	Reviews       []Review       `gorm:"constraint:OnDelete:CASCADE"`
	Notifications []Notification `gorm:"constraint:OnDelete:CASCADE"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
