package registration

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
)

// SubmitRequest is the self-service signup payload.
type SubmitRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	FatherName string `json:"fatherName" validate:"required,max=100"`
	DOB        string `json:"dob" validate:"required,datetime=2006-01-02"`
	Email      string `json:"email" validate:"required,email,max=254"`
}

// DeclineRequest carries the optional reason shown to the registrant.
type DeclineRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RequestDTO is the API shape of a registration request.
type RequestDTO struct {
	ID              uuid.UUID           `json:"id"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	FatherName      string              `json:"fatherName"`
	DOB             string              `json:"dob"`
	Email           string              `json:"email"`
	Status          enums.RequestStatus `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	ProcessedAt     *time.Time          `json:"processedAt,omitempty"`
	ProcessedBy     *uuid.UUID          `json:"processedBy,omitempty"`
	RejectionReason *string             `json:"rejectionReason,omitempty"`
}

func FromModel(m *models.RegistrationRequest) *RequestDTO {
	if m == nil {
		return nil
	}
	return &RequestDTO{
		ID:              m.ID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		FatherName:      m.FatherName,
		DOB:             m.DOB,
		Email:           m.Email,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		ProcessedAt:     m.ProcessedAt,
		ProcessedBy:     m.ProcessedBy,
		RejectionReason: m.RejectionReason,
	}
}

func FromModels(rows []models.RegistrationRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
