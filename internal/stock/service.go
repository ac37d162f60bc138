package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quantities are stored as numeric(14,3).
const (
	quantityPrecision = 14
	quantityScale     = 3
)

// Service records stock movements and derives balances from them.
type Service interface {
	Create(ctx context.Context, input CreateEntryInput, actor string) (*EntryDTO, error)
	List(ctx context.Context, filter ListFilter) ([]EntryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EntryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*EntryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Balance(ctx context.Context, materialCode string) (*BalanceDTO, error)
}

type materialLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Material, error)
}

type ServiceParams struct {
	Repo      *Repository
	Materials materialLookup
}

type service struct {
	repo      *Repository
	materials materialLookup
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stock repository is required")
	}
	if params.Materials == nil {
		return nil, fmt.Errorf("material lookup is required")
	}
	return &service{repo: params.Repo, materials: params.Materials}, nil
}

func (s *service) Create(ctx context.Context, input CreateEntryInput, actor string) (*EntryDTO, error) {
	code := strings.TrimSpace(input.MaterialCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material code is required")
	}
	if err := validateMovement(&input.Quantity, &input.Unit, &input.EntryType); err != nil {
		return nil, err
	}
	if _, err := s.materials.FindByCode(ctx, code); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("material %s not found", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load material")
	}

	entry := &models.StockEntry{
		MaterialCode: code,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		EntryType:    input.EntryType,
		Remarks:      strings.TrimSpace(input.Remarks),
		CreatedBy:    actor,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create stock entry")
	}
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]EntryDTO, error) {
	if filter.EntryType != nil && !filter.EntryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entry type")
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stock entries")
	}
	out := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stock entry")
	}
	dto := FromModel(entry)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*EntryDTO, error) {
	if err := validateMovement(input.Quantity, input.Unit, input.EntryType); err != nil {
		return nil, err
	}
	if input.Remarks != nil {
		trimmed := strings.TrimSpace(*input.Remarks)
		input.Remarks = &trimmed
	}
	if cols := input.columns(); len(cols) > 0 {
		found, err := s.repo.Update(ctx, id, cols)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update stock entry")
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stock entry")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock entry not found")
	}
	return nil
}

// Balance sums every entry for materialCode: credits add, debits subtract.
// A code with no entries reports zero totals and no last entry.
func (s *service) Balance(ctx context.Context, materialCode string) (*BalanceDTO, error) {
	code := strings.TrimSpace(materialCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material code is required")
	}
	rows, err := s.repo.ListByMaterial(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stock entries")
	}

	out := &BalanceDTO{MaterialCode: code, TotalCredit: decimal.Zero, TotalDebit: decimal.Zero}
	var last *models.StockEntry
	for i := range rows {
		entry := &rows[i]
		switch entry.EntryType {
		case enums.EntryTypeCredit:
			out.TotalCredit = out.TotalCredit.Add(entry.Quantity)
		case enums.EntryTypeDebit:
			out.TotalDebit = out.TotalDebit.Add(entry.Quantity)
		}
		if last == nil || !entry.CreatedAt.Before(last.CreatedAt) {
			last = entry
		}
	}
	out.Balance = out.TotalCredit.Sub(out.TotalDebit)
	if last != nil {
		dto := FromModel(last)
		out.LastEntry = &dto
	}
	return out, nil
}

func validateMovement(quantity *decimal.Decimal, unit *enums.Unit, entryType *enums.EntryType) error {
	if quantity != nil {
		if !quantity.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
		}
		if !db.FitsNumeric(*quantity, quantityPrecision, quantityScale) {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be below 100000000000 with at most 3 decimal places")
		}
	}
	if unit != nil && !unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	}
	if entryType != nil && !entryType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "entry type must be Credit or Debit")
	}
	return nil
}
