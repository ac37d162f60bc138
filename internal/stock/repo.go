package stock

import (
	"context"
	"strings"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists stock ledger entries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, entry *models.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns entries matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.StockEntry, error) {
	q := r.db.WithContext(ctx).Model(&models.StockEntry{})
	if code := strings.TrimSpace(filter.MaterialCode); code != "" {
		q = q.Where("material_code = ?", code)
	}
	if filter.EntryType != nil {
		q = q.Where("entry_type = ?", *filter.EntryType)
	}
	var rows []models.StockEntry
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByMaterial returns every entry for code in insertion order.
func (r *Repository) ListByMaterial(ctx context.Context, code string) ([]models.StockEntry, error) {
	var rows []models.StockEntry
	err := r.db.WithContext(ctx).
		Where("material_code = ?", code).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.StockEntry{}).Where("id = ?", id).Updates(cols)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.StockEntry{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
