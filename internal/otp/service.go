// Package otp issues, verifies, and consumes the emailed passcodes used by
// the forgot-password flow.
package otp

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/mailer"
	"github.com/angelmondragon/matmaster-backend/pkg/metrics"
	"github.com/angelmondragon/matmaster-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	CodeLength        = 6
	MinPasswordLength = 6

	invalidOTPMessage = "invalid or expired otp"
)

// Service is the forgot-password lifecycle.
type Service interface {
	Send(ctx context.Context, email string) (*IssueResult, error)
	Resend(ctx context.Context, email string) (*IssueResult, error)
	Verify(ctx context.Context, email, code string) (bool, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// IssueResult describes a freshly stored passcode without exposing it.
type IssueResult struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CooldownLimiter holds a per-key reservation for a fixed ttl.
type CooldownLimiter interface {
	Reserve(ctx context.Context, scope string, ttl time.Duration) (bool, time.Duration, error)
	ReleaseReservation(ctx context.Context, scope string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type ServiceParams struct {
	Repo     *Repository
	Users    *users.Repository
	TX       txRunner
	Limiter  CooldownLimiter
	Hasher   passwordHasher
	Mailer   mailer.Sender
	Metrics  *metrics.OTPMetrics
	Config   config.OTPConfig
	Logger   *logger.Logger
	Now      func() time.Time
	Generate func() (string, error)
}

type service struct {
	repo     *Repository
	users    *users.Repository
	tx       txRunner
	limiter  CooldownLimiter
	hasher   passwordHasher
	mail     mailer.Sender
	metrics  *metrics.OTPMetrics
	cfg      config.OTPConfig
	logg     *logger.Logger
	now      func() time.Time
	generate func() (string, error)
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("otp repository is required")
	case params.Users == nil:
		return nil, fmt.Errorf("users repository is required")
	case params.TX == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case params.Limiter == nil:
		return nil, fmt.Errorf("cooldown limiter is required")
	case params.Hasher == nil:
		return nil, fmt.Errorf("password hasher is required")
	case params.Mailer == nil:
		return nil, fmt.Errorf("mailer is required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger is required")
	case params.Config.ValidWindow <= 0:
		return nil, fmt.Errorf("otp valid window must be positive")
	case params.Config.ResendCooldown <= 0:
		return nil, fmt.Errorf("otp resend cooldown must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	generate := params.Generate
	if generate == nil {
		generate = func() (string, error) { return security.GenerateNumericCode(CodeLength) }
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		tx:       params.TX,
		limiter:  params.Limiter,
		hasher:   params.Hasher,
		mail:     params.Mailer,
		metrics:  params.Metrics,
		cfg:      params.Config,
		logg:     params.Logger,
		now:      now,
		generate: generate,
	}, nil
}

func (s *service) Send(ctx context.Context, email string) (*IssueResult, error) {
	return s.issue(ctx, email)
}

func (s *service) Resend(ctx context.Context, email string) (*IssueResult, error) {
	return s.issue(ctx, email)
}

// issue replaces any outstanding passcode for email with a new one. The
// cooldown is reserved first and released again if nothing was stored.
func (s *service) issue(ctx context.Context, rawEmail string) (*IssueResult, error) {
	email := normalizeEmail(rawEmail)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account found for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	scope := cooldownScope(email)
	reserved, remaining, err := s.limiter.Reserve(ctx, scope, s.cfg.ResendCooldown)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve otp cooldown")
	}
	if !reserved {
		s.metrics.IncRateLimited()
		seconds := int(math.Ceil(remaining.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, fmt.Sprintf("please wait %d seconds before requesting another code", seconds)).
			WithDetails(map[string]any{"timeRemaining": seconds})
	}

	code, err := s.generate()
	if err != nil {
		s.release(ctx, scope)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	now := s.now().UTC()
	row := &models.OneTimePasscode{Email: email, Code: code, ExpiresAt: now.Add(s.cfg.ValidWindow)}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeleteByEmail(ctx, email); err != nil {
			return err
		}
		return repo.Create(ctx, row)
	})
	if err != nil {
		s.release(ctx, scope)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store otp")
	}
	s.metrics.IncIssued()

	mailer.SendBestEffort(ctx, s.mail, s.logg, mailer.PasscodeEmail(email, code, s.cfg.ValidWindow))
	return &IssueResult{Email: email, ExpiresAt: row.ExpiresAt}, nil
}

func (s *service) Verify(ctx context.Context, email, code string) (bool, error) {
	ok, err := s.verify(ctx, normalizeEmail(email), code)
	if err != nil {
		return false, err
	}
	s.metrics.ObserveVerify(ok)
	return ok, nil
}

func (s *service) verify(ctx context.Context, email, code string) (bool, error) {
	if email == "" || strings.TrimSpace(code) == "" {
		return false, nil
	}
	row, err := s.repo.LatestActive(ctx, email, s.now().UTC())
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load otp")
	}
	return strings.TrimSpace(row.Code) == strings.TrimSpace(code), nil
}

func (s *service) ResetPassword(ctx context.Context, rawEmail, code, newPassword string) error {
	email := normalizeEmail(rawEmail)
	ok, err := s.verify(ctx, email, code)
	if err != nil {
		return err
	}
	s.metrics.ObserveVerify(ok)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
	}
	if len(newPassword) < MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		otpRepo := s.repo.WithTx(tx)
		row, err := otpRepo.LatestActiveForUpdate(ctx, email, s.now().UTC())
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock otp")
		}
		if strings.TrimSpace(row.Code) != strings.TrimSpace(code) {
			return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
		}

		userRepo := s.users.WithTx(tx)
		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no account found for this email")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
		deleted, err := otpRepo.DeleteByEmail(ctx, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume otp")
		}
		if deleted == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, invalidOTPMessage)
		}
		return nil
	})
	if err != nil {
		return err
	}

	mailer.SendBestEffort(ctx, s.mail, s.logg, mailer.PasswordChangedEmail(email))
	return nil
}

func (s *service) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete expired otps")
	}
	return n, nil
}

func (s *service) release(ctx context.Context, scope string) {
	if err := s.limiter.ReleaseReservation(ctx, scope); err != nil {
		s.logg.WarnErr(ctx, "otp.cooldown_release_failed", err)
	}
}

func cooldownScope(email string) string {
	return "otp:" + email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
