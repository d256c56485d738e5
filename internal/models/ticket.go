package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// A ticket is active until its event takes place, finished afterwards, and
// cancelled when the owner cancels it. Finished tickets still count toward
// seat totals and review eligibility; only cancelled ones do not.
const (
	TicketStatusActive    = "active"
	TicketStatusFinished  = "finished"
	TicketStatusCancelled = "cancelled"
)

type Ticket struct {
	gorm.Model
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	NumTickets   int             `gorm:"not null;default:1"`
	PurchaseDate time.Time       `gorm:"not null"`
	Timestamp    time.Time       `gorm:"not null"`
	Status       string          `gorm:"not null;default:'active'"`
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Event        Event
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Owner        User
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
