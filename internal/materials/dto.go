package materials

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateMaterialInput is the payload for a new master record. The code is
// always generated from the class.
type CreateMaterialInput struct {
	MaterialFlow enums.MaterialFlow   `json:"materialFlow" validate:"required,oneof=BOM FIN"`
	Class        enums.MaterialClass  `json:"class" validate:"required,oneof=A B C D F"`
	Category     string               `json:"category" validate:"max=100"`
	MaterialName string               `json:"materialName" validate:"required,max=200"`
	Description  string               `json:"description" validate:"max=1000"`
	Unit         enums.Unit           `json:"unit" validate:"required,oneof=EA KG M"`
	HSNCode      string               `json:"hsnCode" validate:"max=20"`
	GSTRate      decimal.Decimal      `json:"gstRate"`
	Cost         decimal.Decimal      `json:"cost"`
	Status       enums.MaterialStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateMaterialInput carries editable fields; nil fields are left alone.
// Code and class are fixed at creation.
type UpdateMaterialInput struct {
	MaterialFlow *enums.MaterialFlow   `json:"materialFlow" validate:"omitempty,oneof=BOM FIN"`
	Category     *string               `json:"category" validate:"omitempty,max=100"`
	MaterialName *string               `json:"materialName" validate:"omitempty,min=1,max=200"`
	Description  *string               `json:"description" validate:"omitempty,max=1000"`
	Unit         *enums.Unit           `json:"unit" validate:"omitempty,oneof=EA KG M"`
	HSNCode      *string               `json:"hsnCode" validate:"omitempty,max=20"`
	GSTRate      *decimal.Decimal      `json:"gstRate"`
	Cost         *decimal.Decimal      `json:"cost"`
	Status       *enums.MaterialStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ListFilter narrows material and archive listings.
type ListFilter struct {
	Class    *enums.MaterialClass
	Flow     *enums.MaterialFlow
	Status   *enums.MaterialStatus
	Category string
	Search   string
}

// MaterialDTO is the API shape of an active material.
type MaterialDTO struct {
	ID           uuid.UUID            `json:"id"`
	MaterialCode string               `json:"materialCode"`
	MaterialFlow enums.MaterialFlow   `json:"materialFlow"`
	Class        enums.MaterialClass  `json:"class"`
	Category     string               `json:"category"`
	MaterialName string               `json:"materialName"`
	Description  string               `json:"description"`
	Unit         enums.Unit           `json:"unit"`
	HSNCode      string               `json:"hsnCode"`
	GSTRate      decimal.Decimal      `json:"gstRate"`
	Cost         decimal.Decimal      `json:"cost"`
	Status       enums.MaterialStatus `json:"status"`
	CreatedBy    string               `json:"createdBy"`
	RestoredAt   *time.Time           `json:"restoredAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// ArchivedMaterialDTO is the API shape of an archived material.
type ArchivedMaterialDTO struct {
	MaterialDTO
	OriginalID uuid.UUID `json:"originalId"`
	ArchivedAt time.Time `json:"archivedAt"`
	ArchivedBy string    `json:"archivedBy"`
}

// NextCodeDTO previews the code the next material of a class would receive.
type NextCodeDTO struct {
	Class        enums.MaterialClass `json:"class"`
	MaterialCode string              `json:"materialCode"`
}

func attributesDTO(id uuid.UUID, a models.MaterialAttributes, createdAt, updatedAt time.Time) MaterialDTO {
	return MaterialDTO{
		ID:           id,
		MaterialCode: a.MaterialCode,
		MaterialFlow: a.MaterialFlow,
		Class:        a.Class,
		Category:     a.Category,
		MaterialName: a.MaterialName,
		Description:  a.Description,
		Unit:         a.Unit,
		HSNCode:      a.HSNCode,
		GSTRate:      a.GSTRate,
		Cost:         a.Cost,
		Status:       a.Status,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func FromModel(m *models.Material) MaterialDTO {
	dto := attributesDTO(m.ID, m.MaterialAttributes, m.CreatedAt, m.UpdatedAt)
	dto.RestoredAt = m.RestoredAt
	return dto
}

func FromArchivedModel(m *models.ArchivedMaterial) ArchivedMaterialDTO {
	return ArchivedMaterialDTO{
		MaterialDTO: attributesDTO(m.ID, m.MaterialAttributes, m.CreatedAt, m.UpdatedAt),
		OriginalID:  m.OriginalID,
		ArchivedAt:  m.ArchivedAt,
		ArchivedBy:  m.ArchivedBy,
	}
}

func (u UpdateMaterialInput) columns() map[string]any {
	cols := map[string]any{}
	if u.MaterialFlow != nil {
		cols["material_flow"] = *u.MaterialFlow
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.MaterialName != nil {
		cols["material_name"] = *u.MaterialName
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Unit != nil {
		cols["unit"] = *u.Unit
	}
	if u.HSNCode != nil {
		cols["hsn_code"] = *u.HSNCode
	}
	if u.GSTRate != nil {
		cols["gst_rate"] = *u.GSTRate
	}
	if u.Cost != nil {
		cols["cost"] = *u.Cost
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	return cols
}
