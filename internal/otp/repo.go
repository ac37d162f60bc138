package otp

import (
	"context"
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists one-time passcodes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, row *models.OneTimePasscode) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// LatestActive returns the unexpired passcode for email with the furthest expiry.
func (r *Repository) LatestActive(ctx context.Context, email string, now time.Time) (*models.OneTimePasscode, error) {
	return r.latestActive(r.db.WithContext(ctx), email, now)
}

// LatestActiveForUpdate is LatestActive with the row locked until the
// surrounding transaction ends.
func (r *Repository) LatestActiveForUpdate(ctx context.Context, email string, now time.Time) (*models.OneTimePasscode, error) {
	return r.latestActive(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), email, now)
}

func (r *Repository) latestActive(q *gorm.DB, email string, now time.Time) (*models.OneTimePasscode, error) {
	var row models.OneTimePasscode
	err := q.
		Where("email = ? AND expires_at > ?", email, now).
		Order("expires_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.OneTimePasscode{})
	return res.RowsAffected, res.Error
}

// DeleteExpired removes every passcode whose expiry is at or before now.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.OneTimePasscode{})
	return res.RowsAffected, res.Error
}
