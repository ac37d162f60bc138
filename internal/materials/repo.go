package materials

import (
	"context"
	"strings"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/angelmondragon/matmaster-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists active materials, archived materials, and code counters.
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

// ClassCodes returns every material code of class across active and archived rows.
func (r *Repository) ClassCodes(ctx context.Context, class enums.MaterialClass) ([]string, error) {
	var active, archived []string
	if err := r.db.WithContext(ctx).Model(&models.Material{}).Where("class = ?", class).Pluck("material_code", &active).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ArchivedMaterial{}).Where("class = ?", class).Pluck("material_code", &archived).Error; err != nil {
		return nil, err
	}
	return append(active, archived...), nil
}

// Counter reads the class counter without locking. Missing counters read as zero.
func (r *Repository) Counter(ctx context.Context, class enums.MaterialClass) (int64, error) {
	var counter models.MaterialCodeCounter
	err := r.db.WithContext(ctx).Where("class = ?", class).Limit(1).Find(&counter).Error
	return counter.LastCode, err
}

// LockCounter ensures the class counter row exists and locks it for the
// surrounding transaction.
func (r *Repository) LockCounter(ctx context.Context, class enums.MaterialClass) (*models.MaterialCodeCounter, error) {
	seed := models.MaterialCodeCounter{Class: class}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}
	var counter models.MaterialCodeCounter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("class = ?", class).
		First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *Repository) SaveCounter(ctx context.Context, class enums.MaterialClass, lastCode int64) error {
	return r.db.WithContext(ctx).
		Model(&models.MaterialCodeCounter{}).
		Where("class = ?", class).
		Update("last_code", lastCode).Error
}

func (r *Repository) Create(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).First(&m, "material_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns one cursor page of active materials, newest first. The result
// holds up to limit+1 rows so callers can detect a following page.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Material, error) {
	q, err := r.listQuery(ctx, &models.Material{}, filter, page)
	if err != nil {
		return nil, err
	}
	var rows []models.Material
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Material{}).Where("id = ?", id).Updates(cols)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Material{}, id)
}

func (r *Repository) ExistsArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.ArchivedMaterial{}, id)
}

func (r *Repository) CreateArchived(ctx context.Context, m *models.ArchivedMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) FindArchivedByID(ctx context.Context, id uuid.UUID) (*models.ArchivedMaterial, error) {
	var m models.ArchivedMaterial
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) FindArchivedByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.ArchivedMaterial, error) {
	var m models.ArchivedMaterial
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListArchived returns one cursor page of archived materials.
func (r *Repository) ListArchived(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.ArchivedMaterial, error) {
	q, err := r.listQuery(ctx, &models.ArchivedMaterial{}, filter, page)
	if err != nil {
		return nil, err
	}
	var rows []models.ArchivedMaterial
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) DeleteArchived(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.ArchivedMaterial{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) listQuery(ctx context.Context, model any, filter ListFilter, page pagination.Params) (*gorm.DB, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(model)
	if filter.Class != nil {
		q = q.Where("class = ?", *filter.Class)
	}
	if filter.Flow != nil {
		q = q.Where("material_flow = ?", *filter.Flow)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(material_name) LIKE ? OR material_code LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		q = q.Where("((created_at < ?) OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	return q.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(page.Limit)), nil
}

func (r *Repository) exists(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
