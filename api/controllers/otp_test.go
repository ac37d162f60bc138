package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/matmaster-backend/internal/otp"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
)

type stubOTP struct {
	otp.Service
	issueErr error
	verified bool
	resetErr error
	resetPwd string
}

func (s *stubOTP) Send(ctx context.Context, email string) (*otp.IssueResult, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &otp.IssueResult{Email: email}, nil
}

func (s *stubOTP) Resend(ctx context.Context, email string) (*otp.IssueResult, error) {
	return s.Send(ctx, email)
}

func (s *stubOTP) Verify(ctx context.Context, email, code string) (bool, error) {
	return s.verified, nil
}

func (s *stubOTP) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	s.resetPwd = newPassword
	return s.resetErr
}

func TestOTPSendSuccess(t *testing.T) {
	rec, env := serve(t, http.MethodPost, "/send-otp", "/send-otp", `{"email":"jane@example.com"}`, OTPSend(&stubOTP{}, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if env.Message != "verification code sent" {
		t.Fatalf("unexpected message %s", env.Message)
	}
}

func TestOTPResendCooldown(t *testing.T) {
	svc := &stubOTP{issueErr: pkgerrors.New(pkgerrors.CodeRateLimit, "please wait 45 seconds before requesting another code").
		WithDetails(map[string]any{"timeRemaining": 45})}
	rec, env := serve(t, http.MethodPost, "/resend-otp", "/resend-otp", `{"email":"jane@example.com"}`, OTPResend(svc, nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "45" {
		t.Fatalf("expected Retry-After 45, got %q", rec.Header().Get("Retry-After"))
	}
	if env.Error.Details["timeRemaining"] != float64(45) {
		t.Fatalf("unexpected details %v", env.Error.Details)
	}
}

func TestOTPSendUnknownEmail(t *testing.T) {
	svc := &stubOTP{issueErr: pkgerrors.New(pkgerrors.CodeNotFound, "no account for this email")}
	rec, _ := serve(t, http.MethodPost, "/send-otp", "/send-otp", `{"email":"ghost@example.com"}`, OTPSend(svc, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestOTPVerify(t *testing.T) {
	rec, _ := serve(t, http.MethodPost, "/verify-otp", "/verify-otp", `{"email":"jane@example.com","otp":"123456"}`, OTPVerify(&stubOTP{verified: true}, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec, env := serve(t, http.MethodPost, "/verify-otp", "/verify-otp", `{"email":"jane@example.com","otp":"123456"}`, OTPVerify(&stubOTP{}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env.Error.Message != "invalid or expired otp" {
		t.Fatalf("unexpected message %s", env.Error.Message)
	}
}

func TestOTPVerifyRejectsMalformedCode(t *testing.T) {
	rec, env := serve(t, http.MethodPost, "/verify-otp", "/verify-otp", `{"email":"jane@example.com","otp":"12ab"}`, OTPVerify(&stubOTP{verified: true}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if _, ok := env.Error.Details["otp"]; !ok {
		t.Fatalf("expected otp field error, got %v", env.Error.Details)
	}
}

func TestOTPResetPassword(t *testing.T) {
	svc := &stubOTP{}
	rec, _ := serve(t, http.MethodPost, "/reset-password", "/reset-password", `{"email":"jane@example.com","otp":"123456","newPassword":"secret1"}`, OTPResetPassword(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.resetPwd != "secret1" {
		t.Fatalf("password not forwarded")
	}

	rec, _ = serve(t, http.MethodPost, "/reset-password", "/reset-password", `{"email":"jane@example.com","otp":"123456","newPassword":"short"}`, OTPResetPassword(svc, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password got %d", rec.Code)
	}
}
