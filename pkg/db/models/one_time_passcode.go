package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OneTimePasscode authorizes a single password reset for an email.
type OneTimePasscode struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null;index"`
	Code      string    `gorm:"column:code;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

func (o *OneTimePasscode) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
