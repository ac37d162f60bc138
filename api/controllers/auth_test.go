package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/matmaster-backend/internal/auth"
	"github.com/angelmondragon/matmaster-backend/internal/registration"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
	got  auth.LoginRequest
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.got = req
	return s.resp, s.err
}

type stubRegistration struct {
	registration.Service
	submitted registration.SubmitRequest
	err       error
}

func (s *stubRegistration) Submit(ctx context.Context, req registration.SubmitRequest) (*registration.RequestDTO, error) {
	s.submitted = req
	if s.err != nil {
		return nil, s.err
	}
	return &registration.RequestDTO{Email: req.Email, Status: "pending"}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{Token: "tok", User: &users.UserDTO{UserID: "janee"}}}
	rec, env := serve(t, http.MethodPost, "/login", "/login", `{"identifier":"janee","password":"nath#15"}`, AuthLogin(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !env.Success || env.Message != "login successful" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if !strings.Contains(string(env.Data), `"token":"tok"`) {
		t.Fatalf("expected token in data, got %s", env.Data)
	}
	if svc.got.Identifier != "janee" {
		t.Fatalf("identifier not forwarded: %+v", svc.got)
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	svc := &stubAuthService{}
	rec, env := serve(t, http.MethodPost, "/login", "/login", `{"identifier":"a","password":"b","extra":1}`, AuthLogin(svc, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", env.Error.Code)
	}
}

func TestAuthLoginMissingPassword(t *testing.T) {
	rec, env := serve(t, http.MethodPost, "/login", "/login", `{"identifier":"a"}`, AuthLogin(&stubAuthService{}, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env.Error.Details["password"] != "is required" {
		t.Fatalf("expected field detail, got %v", env.Error.Details)
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec, env := serve(t, http.MethodPost, "/login", "/login", `{"identifier":"a","password":"b"}`, AuthLogin(svc, nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if env.Error.Message != "invalid credentials" {
		t.Fatalf("unexpected message %s", env.Error.Message)
	}
}

func TestAuthRegisterRequestCreated(t *testing.T) {
	svc := &stubRegistration{}
	body := `{"firstName":"Jane","lastName":"Doe","fatherName":"Nathan","dob":"1992-07-15","email":"jane@example.com"}`
	rec, env := serve(t, http.MethodPost, "/register-request", "/register-request", body, AuthRegisterRequest(svc, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	if svc.submitted.FatherName != "Nathan" {
		t.Fatalf("unexpected submission %+v", svc.submitted)
	}
}

func TestAuthRegisterRequestBadDOB(t *testing.T) {
	body := `{"firstName":"Jane","lastName":"Doe","fatherName":"Nathan","dob":"15/07/1992","email":"jane@example.com"}`
	rec, env := serve(t, http.MethodPost, "/register-request", "/register-request", body, AuthRegisterRequest(&stubRegistration{}, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env.Error.Details["dob"] != "must match 2006-01-02" {
		t.Fatalf("unexpected details %v", env.Error.Details)
	}
}
