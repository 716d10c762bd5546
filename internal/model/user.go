package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email      string    `gorm:"size:191;not null;uniqueIndex" json:"email"`
	Name       *string   `gorm:"size:191" json:"name"`
	ExternalID string    `gorm:"size:191;not null;uniqueIndex" json:"externalId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// NewID returns a fresh opaque identifier for any persisted entity.
func NewID() string {
	return uuid.NewString()
}
