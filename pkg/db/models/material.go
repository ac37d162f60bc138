package models

import (
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialAttributes are the catalogue fields shared by active and archived rows.
type MaterialAttributes struct {
	MaterialCode string               `gorm:"column:material_code;type:text;not null;uniqueIndex"`
	MaterialFlow enums.MaterialFlow   `gorm:"column:material_flow;type:text;not null"`
	Class        enums.MaterialClass  `gorm:"column:class;type:text;not null;index"`
	Category     string               `gorm:"column:category;type:text"`
	MaterialName string               `gorm:"column:material_name;type:text;not null"`
	Description  string               `gorm:"column:description;type:text"`
	Unit         enums.Unit           `gorm:"column:unit;type:text;not null"`
	HSNCode      string               `gorm:"column:hsn_code;type:text"`
	GSTRate      decimal.Decimal      `gorm:"column:gst_rate;type:numeric(5,2);not null"`
	Cost         decimal.Decimal      `gorm:"column:cost;type:numeric(14,2);not null"`
	Status       enums.MaterialStatus `gorm:"column:status;type:text;not null"`
	CreatedBy    string               `gorm:"column:created_by;type:text"`
}

// Material is an active master catalogue record.
type Material struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MaterialAttributes
	RestoredAt *time.Time `gorm:"column:restored_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Material) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// ArchivedMaterial is a material moved out of the active set. ID equals the
// original material id so it can be restored under the same key.
type ArchivedMaterial struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MaterialAttributes
	OriginalID uuid.UUID `gorm:"column:original_id;type:uuid;not null"`
	ArchivedAt time.Time `gorm:"column:archived_at;not null"`
	ArchivedBy string    `gorm:"column:archived_by;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// MaterialCodeCounter holds the last issued code per class.
type MaterialCodeCounter struct {
	Class    enums.MaterialClass `gorm:"column:class;type:text;primaryKey"`
	LastCode int64               `gorm:"column:last_code;not null"`
}
