package models

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockEntry is one ledger movement against a material code.
type StockEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MaterialCode string          `gorm:"column:material_code;type:text;not null;index"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null"`
	Unit         enums.Unit      `gorm:"column:unit;type:text;not null"`
	EntryType    enums.EntryType `gorm:"column:entry_type;type:text;not null"`
	Remarks      string          `gorm:"column:remarks;type:text"`
	CreatedBy    string          `gorm:"column:created_by;type:text"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
