package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/matmaster-backend/api/middleware"
	"github.com/angelmondragon/matmaster-backend/api/validators"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
)

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chi.URLParam(r, name), name)
}

func actorID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

// actorLabel names the caller in audit columns, preferring the login id.
func actorLabel(r *http.Request) string {
	if id := middleware.LoginIDFromContext(r.Context()); id != "" {
		return id
	}
	return middleware.UserIDFromContext(r.Context())
}
