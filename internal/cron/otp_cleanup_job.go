package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/matmaster-backend/pkg/logger"
)

// OTPCleanupJobName labels the expired passcode sweep in logs and metrics.
const OTPCleanupJobName = "otp-cleanup"

type otpSweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type OTPCleanupJobParams struct {
	Logger  *logger.Logger
	Sweeper otpSweeper
}

func NewOTPCleanupJob(params OTPCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("otp sweeper required")
	}
	return &otpCleanupJob{logg: params.Logger, sweeper: params.Sweeper}, nil
}

type otpCleanupJob struct {
	logg    *logger.Logger
	sweeper otpSweeper
}

func (j *otpCleanupJob) Name() string { return OTPCleanupJobName }

func (j *otpCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.sweeper.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("otp cleanup: %w", err)
	}
	if deleted > 0 {
		j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "expired otps removed")
	}
	return nil
}
