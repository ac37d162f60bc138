package activity

import (
	"context"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists login activity rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.LoginActivity) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListByUser returns every row for userID in storage order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginActivity, error) {
	var rows []models.LoginActivity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecent returns up to limit rows for userID, newest first.
func (r *Repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.LoginActivity, error) {
	var rows []models.LoginActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.LoginActivity{})
	return res.RowsAffected, res.Error
}
