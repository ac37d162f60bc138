package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/matmaster-backend/internal/credentials"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/mailer"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service runs the signup and admin review workflow.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*RequestDTO, error)
	List(ctx context.Context, status enums.RequestStatus) ([]RequestDTO, error)
	Approve(ctx context.Context, id, adminID uuid.UUID) (*users.UserDTO, error)
	Decline(ctx context.Context, id, adminID uuid.UUID, reason string) (*RequestDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// ServiceParams bundles the dependencies required to build a registration service.
type ServiceParams struct {
	Repo   *Repository
	Users  *users.Repository
	TX     txRunner
	Hasher passwordHasher
	Mailer mailer.Sender
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo     *Repository
	users    *users.Repository
	tx       txRunner
	hasher   passwordHasher
	mail     mailer.Sender
	logg     *logger.Logger
	now      func() time.Time
	validate *validator.Validate
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("registration repository is required")
	case params.Users == nil:
		return nil, fmt.Errorf("users repository is required")
	case params.TX == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case params.Hasher == nil:
		return nil, fmt.Errorf("password hasher is required")
	case params.Mailer == nil:
		return nil, fmt.Errorf("mailer is required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		tx:       params.TX,
		hasher:   params.Hasher,
		mail:     params.Mailer,
		logg:     params.Logger,
		now:      now,
		validate: validator.New(),
	}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*RequestDTO, error) {
	req = normalize(req)
	if err := s.validate.Struct(req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid registration request")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	}
	pending, err := s.repo.HasPending(ctx, req.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending requests")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a request for this email is already pending")
	}

	row := &models.RegistrationRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		FatherName: req.FatherName,
		DOB:        req.DOB,
		Email:      req.Email,
		Status:     enums.RequestStatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a request for this email is already pending")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create registration request")
	}
	return FromModel(row), nil
}

func (s *service) List(ctx context.Context, status enums.RequestStatus) ([]RequestDTO, error) {
	if status == "" {
		status = enums.RequestStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list registration requests")
	}
	return FromModels(rows), nil
}

// Approve turns a pending request into an active employee account and deletes
// the request. The credentials email is sent after the transaction commits.
func (s *service) Approve(ctx context.Context, id, adminID uuid.UUID) (*users.UserDTO, error) {
	var (
		created *models.User
		creds   credentials.Credentials
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		req, err := s.loadPending(ctx, repo, id)
		if err != nil {
			return err
		}

		taken, err := userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}

		creds, err = credentials.Derive(req.FirstName, req.LastName, req.FatherName, req.DOB)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "derive credentials")
		}
		if _, err := userRepo.FindByUserID(ctx, creds.UserID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("user id %q is already taken", creds.UserID))
		} else if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user id")
		}

		hash, err := s.hasher.Hash(creds.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		created, err = userRepo.Create(ctx, users.CreateUserDTO{
			UserID:       creds.UserID,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			FatherName:   req.FatherName,
			DOB:          req.DOB,
			Role:         enums.RoleEmployee,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "user id or email is already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if err := repo.Delete(ctx, req.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete registration request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"request_id": id.String(), "admin_id": adminID.String()})
	s.logg.Info(logCtx, "registration.approved")
	mailer.SendBestEffort(ctx, s.mail, s.logg, mailer.CredentialsEmail(created.Email, created.FirstName, creds.UserID, creds.Password))

	return users.FromModel(created), nil
}

func (s *service) Decline(ctx context.Context, id, adminID uuid.UUID, reason string) (*RequestDTO, error) {
	var declined *models.RegistrationRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadPending(ctx, repo, id); err != nil {
			return err
		}

		var reasonPtr *string
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			reasonPtr = &trimmed
		}
		ok, err := repo.Reject(ctx, id, adminID, reasonPtr, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decline registration request")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "request already processed")
		}

		declined, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload registration request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reasonText := ""
	if declined.RejectionReason != nil {
		reasonText = *declined.RejectionReason
	}
	mailer.SendBestEffort(ctx, s.mail, s.logg, mailer.DeclinedEmail(declined.Email, declined.FirstName, reasonText))

	return FromModel(declined), nil
}

func (s *service) loadPending(ctx context.Context, repo *Repository, id uuid.UUID) (*models.RegistrationRequest, error) {
	req, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load registration request")
	}
	if req.Status != enums.RequestStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "request already processed")
	}
	return req, nil
}

func normalize(req SubmitRequest) SubmitRequest {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.FatherName = strings.TrimSpace(req.FatherName)
	req.DOB = strings.TrimSpace(req.DOB)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req
}
