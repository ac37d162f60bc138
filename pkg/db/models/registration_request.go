package models

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationRequest is a self-service signup awaiting admin review.
type RegistrationRequest struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	FirstName       string              `gorm:"column:first_name;not null"`
	LastName        string              `gorm:"column:last_name;not null"`
	FatherName      string              `gorm:"column:father_name;not null"`
	DOB             string              `gorm:"column:dob;type:text;not null"`
	Email           string              `gorm:"column:email;type:text;not null;index"`
	Status          enums.RequestStatus `gorm:"column:status;type:text;not null;index"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	ProcessedAt     *time.Time          `gorm:"column:processed_at"`
	ProcessedBy     *uuid.UUID          `gorm:"column:processed_by;type:uuid"`
	RejectionReason *string             `gorm:"column:rejection_reason"`
}

func (r *RegistrationRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
