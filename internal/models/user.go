package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Username    string    `gorm:"unique;not null"`
	Email       string    `gorm:"unique;not null"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `gorm:"not null"`
	LastName    string    `gorm:"not null"`
	Country     string
	City        string
	Street      string
	Phone       string
	TelegramURL string
	Events      []Event  `gorm:"foreignKey:OrganizerID"`
	Tickets     []Ticket `gorm:"foreignKey:OwnerID"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
