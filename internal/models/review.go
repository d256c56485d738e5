package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Rating  int       `gorm:"not null"`
	Comment string    `gorm:"not null"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index"`
	Event   Event
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	User    User
}

func (review *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return
}
