package materials

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const firstSequence = "0001"

var maxGSTRate = decimal.NewFromInt(100)

const (
	costPrecision = 14
	amountScale   = 2
)

// Service manages the material master and its archive.
type Service interface {
	GenerateCode(ctx context.Context, class enums.MaterialClass) (string, error)
	NextCode(ctx context.Context, class enums.MaterialClass) (*NextCodeDTO, error)
	Create(ctx context.Context, input CreateMaterialInput, actor string) (*MaterialDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*pagination.Page[MaterialDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Archive(ctx context.Context, id uuid.UUID, actor string) (*ArchivedMaterialDTO, error)
	Restore(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)
	ListArchived(ctx context.Context, filter ListFilter, page pagination.Params) (*pagination.Page[ArchivedMaterialDTO], error)
	GetArchived(ctx context.Context, id uuid.UUID) (*ArchivedMaterialDTO, error)
	DeleteArchived(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Repo   *Repository
	TX     txRunner
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("materials repository is required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, tx: params.TX, logg: params.Logger, now: now}, nil
}

// GenerateCode computes the next code of class from the codes currently on
// file, active and archived.
func (s *service) GenerateCode(ctx context.Context, class enums.MaterialClass) (string, error) {
	if !class.IsValid() {
		return "", invalidClass(class)
	}
	codes, err := s.repo.ClassCodes(ctx, class)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scan material codes")
	}
	return nextCode(class, 0, codes), nil
}

// NextCode previews what Create would assign without reserving it.
func (s *service) NextCode(ctx context.Context, class enums.MaterialClass) (*NextCodeDTO, error) {
	if !class.IsValid() {
		return nil, invalidClass(class)
	}
	counter, err := s.repo.Counter(ctx, class)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read code counter")
	}
	codes, err := s.repo.ClassCodes(ctx, class)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scan material codes")
	}
	return &NextCodeDTO{Class: class, MaterialCode: nextCode(class, counter, codes)}, nil
}

func (s *service) Create(ctx context.Context, input CreateMaterialInput, actor string) (*MaterialDTO, error) {
	input.MaterialName = strings.TrimSpace(input.MaterialName)
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.MaterialStatusActive
	}

	row := &models.Material{
		MaterialAttributes: models.MaterialAttributes{
			MaterialFlow: input.MaterialFlow,
			Class:        input.Class,
			Category:     strings.TrimSpace(input.Category),
			MaterialName: input.MaterialName,
			Description:  strings.TrimSpace(input.Description),
			Unit:         input.Unit,
			HSNCode:      strings.TrimSpace(input.HSNCode),
			GSTRate:      input.GSTRate,
			Cost:         input.Cost,
			Status:       status,
			CreatedBy:    actor,
		},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		counter, err := repo.LockCounter(ctx, input.Class)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock code counter")
		}
		codes, err := repo.ClassCodes(ctx, input.Class)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scan material codes")
		}
		row.MaterialCode = nextCode(input.Class, counter.LastCode, codes)
		issued, _ := strconv.ParseInt(row.MaterialCode, 10, 64)
		if err := repo.SaveCounter(ctx, input.Class, issued); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance code counter")
		}
		if err := repo.Create(ctx, row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("material code %s already exists", row.MaterialCode))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create material")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "material_code", row.MaterialCode), "material.created")
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*pagination.Page[MaterialDTO], error) {
	if err := validateCursor(page); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list materials")
	}
	items := make([]MaterialDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	out := pagination.BuildPage(items, page.Limit, func(m MaterialDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return &out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "material not found", "load material")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error) {
	if err := validateUpdate(&input); err != nil {
		return nil, err
	}
	cols := input.columns()
	if len(cols) > 0 {
		found, err := s.repo.Update(ctx, id, cols)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update material")
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete material")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return nil
}

// Archive moves an active material into the archive under the same id.
func (s *service) Archive(ctx context.Context, id uuid.UUID, actor string) (*ArchivedMaterialDTO, error) {
	var archived *models.ArchivedMaterial
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		active, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "material not found", "load material")
		}
		taken, err := repo.ExistsArchived(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check archive")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "material is already archived")
		}

		archived = &models.ArchivedMaterial{
			ID:                 active.ID,
			MaterialAttributes: active.MaterialAttributes,
			OriginalID:         active.ID,
			ArchivedAt:         s.now().UTC(),
			ArchivedBy:         actor,
			CreatedAt:          active.CreatedAt,
			UpdatedAt:          active.UpdatedAt,
		}
		if err := repo.CreateArchived(ctx, archived); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "material is already archived")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archive material")
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove active material")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "material_code", archived.MaterialCode), "material.archived")
	dto := FromArchivedModel(archived)
	return &dto, nil
}

// Restore moves an archived material back into the active set under the
// same id. Archive-only fields are dropped.
func (s *service) Restore(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	var restored *models.Material
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		archived, err := repo.FindArchivedByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, "archived material not found", "load archived material")
		}
		taken, err := repo.ExistsActive(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check active materials")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "material already exists in the master")
		}

		now := s.now().UTC()
		restored = &models.Material{
			ID:                 archived.ID,
			MaterialAttributes: archived.MaterialAttributes,
			RestoredAt:         &now,
			CreatedAt:          archived.CreatedAt,
			UpdatedAt:          now,
		}
		if err := repo.Create(ctx, restored); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "material already exists in the master")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore material")
		}
		if _, err := repo.DeleteArchived(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove archived material")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "material_code", restored.MaterialCode), "material.restored")
	dto := FromModel(restored)
	return &dto, nil
}

func (s *service) ListArchived(ctx context.Context, filter ListFilter, page pagination.Params) (*pagination.Page[ArchivedMaterialDTO], error) {
	if err := validateCursor(page); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListArchived(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list archived materials")
	}
	items := make([]ArchivedMaterialDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromArchivedModel(&rows[i]))
	}
	out := pagination.BuildPage(items, page.Limit, func(m ArchivedMaterialDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return &out, nil
}

func (s *service) GetArchived(ctx context.Context, id uuid.UUID) (*ArchivedMaterialDTO, error) {
	row, err := s.repo.FindArchivedByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "archived material not found", "load archived material")
	}
	dto := FromArchivedModel(row)
	return &dto, nil
}

func (s *service) DeleteArchived(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteArchived(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete archived material")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "archived material not found")
	}
	return nil
}

// nextCode returns max(counter, parsed codes)+1, or the class prefix followed
// by 0001 when nothing has been issued. Codes that do not parse are ignored.
func nextCode(class enums.MaterialClass, counter int64, codes []string) string {
	highest := counter
	for _, code := range codes {
		n, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest <= 0 {
		return class.CodePrefix() + firstSequence
	}
	return strconv.FormatInt(highest+1, 10)
}

func validateCreate(input CreateMaterialInput) error {
	switch {
	case !input.MaterialFlow.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid material flow")
	case !input.Class.IsValid():
		return invalidClass(input.Class)
	case !input.Unit.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	case input.MaterialName == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	case input.Status != "" && !input.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid material status")
	}
	return validateAmounts(&input.GSTRate, &input.Cost)
}

func validateUpdate(input *UpdateMaterialInput) error {
	switch {
	case input.MaterialFlow != nil && !input.MaterialFlow.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid material flow")
	case input.Unit != nil && !input.Unit.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	case input.Status != nil && !input.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid material status")
	}
	if input.MaterialName != nil {
		name := strings.TrimSpace(*input.MaterialName)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
		}
		input.MaterialName = &name
	}
	return validateAmounts(input.GSTRate, input.Cost)
}

func validateAmounts(gst, cost *decimal.Decimal) error {
	if gst != nil {
		if gst.IsNegative() || gst.GreaterThan(maxGSTRate) {
			return pkgerrors.New(pkgerrors.CodeValidation, "gst rate must be between 0 and 100")
		}
		if !gst.Equal(gst.Truncate(amountScale)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "gst rate allows at most 2 decimal places")
		}
	}
	if cost != nil {
		if cost.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
		}
		if !db.FitsNumeric(*cost, costPrecision, amountScale) {
			return pkgerrors.New(pkgerrors.CodeValidation, "cost must be below 1000000000000 with at most 2 decimal places")
		}
	}
	return nil
}

func invalidClass(class enums.MaterialClass) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid material class %q", class))
}

func notFoundOr(err error, notFound, op string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}

func validateCursor(page pagination.Params) error {
	if _, err := pagination.ParseCursor(page.Cursor); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return nil
}
