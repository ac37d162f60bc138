package controllers

import (
	"net/http"

	"github.com/angelmondragon/matmaster-backend/api/responses"
	"github.com/angelmondragon/matmaster-backend/api/validators"
	"github.com/angelmondragon/matmaster-backend/internal/materials"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/pagination"
)

func MaterialsList(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, page, err := materialQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MaterialNextCode previews the code the next material of ?class= would receive.
func MaterialNextCode(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		class, err := enums.ParseMaterialClass(validators.QueryString(r, "class", 4))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "class must be one of A, B, C, D, F"))
			return
		}
		next, err := svc.NextCode(r.Context(), class)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, next)
	}
}

func MaterialGet(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, m)
	}
}

func MaterialCreate(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body materials.CreateMaterialInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Create(r.Context(), body, actorLabel(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusCreated, "material created", m)
	}
}

func MaterialUpdate(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body materials.UpdateMaterialInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "material updated", m)
	}
}

func MaterialDelete(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "material deleted", nil)
	}
}

// MaterialArchive moves a material out of the master table.
func MaterialArchive(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		archived, err := svc.Archive(r.Context(), id, actorLabel(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "material archived", archived)
	}
}

func ArchiveList(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, page, err := materialQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListArchived(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ArchiveGet(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.GetArchived(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, m)
	}
}

func ArchiveDelete(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteArchived(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "archived material deleted", nil)
	}
}

func ArchiveRestore(svc materials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m, err := svc.Restore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, http.StatusOK, "material restored", m)
	}
}

func materialQuery(r *http.Request) (materials.ListFilter, pagination.Params, error) {
	filter := materials.ListFilter{
		Category: validators.QueryString(r, "category", 100),
		Search:   validators.QueryString(r, "search", 100),
	}
	if raw := validators.QueryString(r, "class", 4); raw != "" {
		class, err := enums.ParseMaterialClass(raw)
		if err != nil {
			return filter, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid class")
		}
		filter.Class = &class
	}
	if raw := validators.QueryString(r, "materialFlow", 4); raw != "" {
		flow, err := enums.ParseMaterialFlow(raw)
		if err != nil {
			return filter, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid materialFlow")
		}
		filter.Flow = &flow
	}
	if raw := validators.QueryString(r, "status", 10); raw != "" {
		status, err := enums.ParseMaterialStatus(raw)
		if err != nil {
			return filter, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filter.Status = &status
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filter, pagination.Params{}, err
	}
	page := pagination.Params{Limit: limit, Cursor: validators.QueryString(r, "cursor", 200)}
	return filter, page, nil
}
