package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginActivity records one successful sign in.
type LoginActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Date      string    `gorm:"column:date;type:text;not null"`
	Time      string    `gorm:"column:time;type:text;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
}

func (a *LoginActivity) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
