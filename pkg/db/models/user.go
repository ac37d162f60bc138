package models

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an approved account able to sign in.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       string     `gorm:"column:user_id;type:text;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	FatherName   string     `gorm:"column:father_name;not null"`
	DOB          string     `gorm:"column:dob;type:text;not null"`
	Role         enums.Role `gorm:"column:role;type:text;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
