package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	// RetainPerUser is how many login rows survive each trim.
	RetainPerUser = 2

	DefaultLimit = 10
	MaxLimit     = 100

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// ActivityDTO is the API shape of a login row.
type ActivityDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

// Service records and reads the login ledger.
type Service interface {
	RecordLogin(ctx context.Context, userID uuid.UUID) error
	UserActivities(ctx context.Context, userID uuid.UUID, limit int) ([]ActivityDTO, error)
}

type repository interface {
	Create(ctx context.Context, row *models.LoginActivity) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginActivity, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.LoginActivity, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type ServiceParams struct {
	Repo   repository
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("activity repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, logg: params.Logger, now: now}, nil
}

// RecordLogin appends a row and trims the user's history. Only the insert
// can fail the call; trim failures are logged.
func (s *service) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	now := s.now().UTC()
	row := &models.LoginActivity{
		UserID:    userID,
		Date:      now.Format(dateLayout),
		Time:      now.Format(timeLayout),
		Timestamp: now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login activity")
	}

	if removed, err := s.trim(ctx, userID); err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "user_id", userID.String()), "activity.trim_failed", err)
	} else if removed > 0 {
		s.logg.Debug(s.logg.WithField(ctx, "removed", removed), "activity.trimmed")
	}
	return nil
}

func (s *service) trim(ctx context.Context, userID uuid.UUID) (int64, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(rows) <= RetainPerUser {
		return 0, nil
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	stale := make([]uuid.UUID, 0, len(rows)-RetainPerUser)
	for _, row := range rows[RetainPerUser:] {
		stale = append(stale, row.ID)
	}
	return s.repo.DeleteByIDs(ctx, stale)
}

func (s *service) UserActivities(ctx context.Context, userID uuid.UUID, limit int) ([]ActivityDTO, error) {
	rows, err := s.repo.ListRecent(ctx, userID, NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list login activity")
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	out := make([]ActivityDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ActivityDTO{
			ID:        row.ID,
			UserID:    row.UserID,
			Date:      row.Date,
			Time:      row.Time,
			Timestamp: row.Timestamp,
		})
	}
	return out, nil
}

// NormalizeLimit clamps limit to 1..MaxLimit, defaulting when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
