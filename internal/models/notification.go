package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Message string    `gorm:"not null"`
	Read    bool      `gorm:"not null;default:false"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	User    User
	EventID uuid.UUID `gorm:"type:uuid;not null;index"`
	Event   Event
}

func (notification *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return
}
