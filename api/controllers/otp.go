package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/matmaster-backend/api/responses"
	"github.com/angelmondragon/matmaster-backend/api/validators"
	"github.com/angelmondragon/matmaster-backend/internal/otp"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
)

func OTPSend(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return otpIssue(func(ctx context.Context, email string) (*otp.IssueResult, error) {
		return svc.Send(ctx, email)
	}, "verification code sent", logg)
}

func OTPResend(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return otpIssue(func(ctx context.Context, email string) (*otp.IssueResult, error) {
		return svc.Resend(ctx, email)
	}, "verification code resent", logg)
}

func otpIssue(issue func(ctx context.Context, email string) (*otp.IssueResult, error), message string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otp.EmailRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := issue(r.Context(), body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, message, result)
	}
}

// OTPVerify checks a code without consuming it.
func OTPVerify(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otp.VerifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ok, err := svc.Verify(r.Context(), body.Email, body.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired otp"))
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "otp verified", map[string]bool{"verified": true})
	}
}

func OTPResetPassword(svc otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otp.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), body.Email, body.OTP, body.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "password reset", nil)
	}
}
