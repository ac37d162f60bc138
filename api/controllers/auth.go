package controllers

import (
	"net/http"

	"github.com/angelmondragon/matmaster-backend/api/responses"
	"github.com/angelmondragon/matmaster-backend/api/validators"
	"github.com/angelmondragon/matmaster-backend/internal/auth"
	"github.com/angelmondragon/matmaster-backend/internal/registration"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
)

// AuthLogin exchanges an email or login id plus password for an access token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusOK, "login successful", result)
	}
}

// AuthRegisterRequest files a pending signup for an admin to review.
func AuthRegisterRequest(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var body registration.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := svc.Submit(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusCreated, "registration request submitted", req)
	}
}
