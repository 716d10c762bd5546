package model

import (
	"time"

	"gorm.io/gorm"
)

// Message is one chat entry. A nil UserID marks system or AI authored content.
type Message struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID string    `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	UserID    *string   `gorm:"type:varchar(36);index" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsAI      bool      `gorm:"not null;default:false" json:"isAI"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}
