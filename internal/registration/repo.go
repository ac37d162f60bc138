package registration

import (
	"context"
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists registration requests.
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

func (r *Repository) Create(ctx context.Context, req *models.RegistrationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate loads the request and row-locks it for the surrounding transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPending reports whether a pending request exists for email.
func (r *Repository) HasPending(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RegistrationRequest{}).
		Where("email = ? AND status = ?", email, enums.RequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListByStatus returns requests in status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.RequestStatus) ([]models.RegistrationRequest, error) {
	var rows []models.RegistrationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Reject moves a pending request to rejected and reports whether it matched.
func (r *Repository) Reject(ctx context.Context, id, adminID uuid.UUID, reason *string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RegistrationRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":           enums.RequestStatusRejected,
			"processed_at":     at,
			"processed_by":     adminID,
			"rejection_reason": reason,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.RegistrationRequest{}, "id = ?", id).Error
}
