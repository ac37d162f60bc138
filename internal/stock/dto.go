package stock

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateEntryInput struct {
	MaterialCode string          `json:"materialCode" validate:"required,max=20"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         enums.Unit      `json:"unit" validate:"required,oneof=EA KG M"`
	EntryType    enums.EntryType `json:"entryType" validate:"required,oneof=Credit Debit"`
	Remarks      string          `json:"remarks" validate:"max=500"`
}

type UpdateEntryInput struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	Unit      *enums.Unit      `json:"unit" validate:"omitempty,oneof=EA KG M"`
	EntryType *enums.EntryType `json:"entryType" validate:"omitempty,oneof=Credit Debit"`
	Remarks   *string          `json:"remarks" validate:"omitempty,max=500"`
}

type ListFilter struct {
	MaterialCode string
	EntryType    *enums.EntryType
}

type EntryDTO struct {
	ID           uuid.UUID       `json:"id"`
	MaterialCode string          `json:"materialCode"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         enums.Unit      `json:"unit"`
	EntryType    enums.EntryType `json:"entryType"`
	Remarks      string          `json:"remarks"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BalanceDTO summarises every ledger entry of one material code.
type BalanceDTO struct {
	MaterialCode string          `json:"materialCode"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	Balance      decimal.Decimal `json:"balance"`
	LastEntry    *EntryDTO       `json:"lastEntry"`
}

func FromModel(m *models.StockEntry) EntryDTO {
	return EntryDTO{
		ID:           m.ID,
		MaterialCode: m.MaterialCode,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		EntryType:    m.EntryType,
		Remarks:      m.Remarks,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (u UpdateEntryInput) columns() map[string]any {
	cols := map[string]any{}
	if u.Quantity != nil {
		cols["quantity"] = *u.Quantity
	}
	if u.Unit != nil {
		cols["unit"] = *u.Unit
	}
	if u.EntryType != nil {
		cols["entry_type"] = *u.EntryType
	}
	if u.Remarks != nil {
		cols["remarks"] = *u.Remarks
	}
	return cols
}
