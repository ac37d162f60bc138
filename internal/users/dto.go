package users

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FatherName  string     `json:"fatherName"`
	DOB         string     `json:"dob"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	UserID       string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	FatherName   string
	DOB          string
	Role         enums.Role
	IsActive     *bool
}

// UpdateUserDTO carries the admin-editable fields; nil fields are left alone.
type UpdateUserDTO struct {
	FirstName  *string     `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string     `json:"lastName" validate:"omitempty,min=1,max=100"`
	FatherName *string     `json:"fatherName" validate:"omitempty,min=1,max=100"`
	Role       *enums.Role `json:"role" validate:"omitempty,oneof=admin employee"`
	IsActive   *bool       `json:"isActive"`
}

// ListFilter narrows the admin user listing.
type ListFilter struct {
	Role     *enums.Role
	IsActive *bool
	Search   string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		UserID:      u.UserID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FatherName:  u.FatherName,
		DOB:         u.DOB,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	role := c.Role
	if role == "" {
		role = enums.RoleEmployee
	}
	return &models.User{
		UserID:       c.UserID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		FatherName:   c.FatherName,
		DOB:          c.DOB,
		Role:         role,
		IsActive:     isActive,
	}
}

func (u UpdateUserDTO) columns() map[string]any {
	cols := map[string]any{}
	if u.FirstName != nil {
		cols["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		cols["last_name"] = *u.LastName
	}
	if u.FatherName != nil {
		cols["father_name"] = *u.FatherName
	}
	if u.Role != nil {
		cols["role"] = *u.Role
	}
	if u.IsActive != nil {
		cols["is_active"] = *u.IsActive
	}
	return cols
}

// ChangePasswordRequest is the self-service password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}
