package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/matmaster-backend/internal/activity"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/google/uuid"
)

// MinPasswordLength applies to every password chosen by a user.
const MinPasswordLength = 6

// Service exposes account self-service and admin user management.
type Service interface {
	Me(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, filter ListFilter) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	Activities(ctx context.Context, id uuid.UUID, limit int) ([]activity.ActivityDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filter ListFilter) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (bool, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type activityReader interface {
	UserActivities(ctx context.Context, userID uuid.UUID, limit int) ([]activity.ActivityDTO, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo       userRepository
	Hasher     passwordHasher
	Activities activityReader
}

type service struct {
	repo       userRepository
	hasher     passwordHasher
	activities activityReader
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Activities == nil {
		return nil, fmt.Errorf("activity reader is required")
	}
	return &service{repo: params.Repo, hasher: params.Hasher, activities: params.Activities}, nil
}

func (s *service) Me(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	return s.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*UserDTO, error) {
	if dto.Role != nil && !dto.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	for _, name := range []*string{dto.FirstName, dto.LastName, dto.FatherName} {
		if name != nil {
			*name = strings.TrimSpace(*name)
			if *name == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "names cannot be blank")
			}
		}
	}
	found, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete your own account")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}
	if len(next) < MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) Activities(ctx context.Context, id uuid.UUID, limit int) ([]activity.ActivityDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.activities.UserActivities(ctx, id, limit)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
