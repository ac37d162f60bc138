package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/matmaster-backend/internal/activity"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
)

type stubUsers struct {
	users.Service
	filter  users.ListFilter
	limit   int
	actor   uuid.UUID
	target  uuid.UUID
	current string
	next    string
	err     error
}

func (s *stubUsers) Me(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id, UserID: "janee"}, nil
}

func (s *stubUsers) List(ctx context.Context, filter users.ListFilter) ([]users.UserDTO, error) {
	s.filter = filter
	return []users.UserDTO{}, nil
}

func (s *stubUsers) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	s.actor, s.target = actorID, id
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete your own account")
	}
	return nil
}

func (s *stubUsers) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	s.current, s.next = current, next
	return s.err
}

func (s *stubUsers) Activities(ctx context.Context, id uuid.UUID, limit int) ([]activity.ActivityDTO, error) {
	s.target, s.limit = id, limit
	return []activity.ActivityDTO{}, nil
}

func TestUsersMe(t *testing.T) {
	id := uuid.NewString()
	rec, _ := serve(t, http.MethodGet, "/me", "/me", "", UsersMe(&stubUsers{}, nil), asUser(id, "janee"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec, _ = serve(t, http.MethodGet, "/me", "/me", "", UsersMe(&stubUsers{}, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor got %d", rec.Code)
	}
}

func TestUsersChangePassword(t *testing.T) {
	svc := &stubUsers{}
	body := `{"currentPassword":"nath#15","newPassword":"better-secret"}`
	rec, _ := serve(t, http.MethodPost, "/me/change-password", "/me/change-password", body, UsersChangePassword(svc, nil), asUser(uuid.NewString(), "janee"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.current != "nath#15" || svc.next != "better-secret" {
		t.Fatalf("passwords not forwarded")
	}

	svc.err = pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	rec, _ = serve(t, http.MethodPost, "/me/change-password", "/me/change-password", body, UsersChangePassword(svc, nil), asUser(uuid.NewString(), "janee"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestUsersMyActivitiesLimit(t *testing.T) {
	svc := &stubUsers{}
	id := uuid.New()
	rec, _ := serve(t, http.MethodGet, "/me/activities", "/me/activities", "", UsersMyActivities(svc, nil), asUser(id.String(), "janee"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.limit != activity.DefaultLimit || svc.target != id {
		t.Fatalf("unexpected limit %d target %s", svc.limit, svc.target)
	}

	rec, _ = serve(t, http.MethodGet, "/me/activities", "/me/activities?limit=1000", "", UsersMyActivities(svc, nil), asUser(id.String(), "janee"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUsersListFilters(t *testing.T) {
	svc := &stubUsers{}
	rec, _ := serve(t, http.MethodGet, "/users", "/users?role=employee&isActive=false&search=jane", "", AdminUsersList(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filter.Role == nil || *svc.filter.Role != enums.RoleEmployee {
		t.Fatalf("role not parsed")
	}
	if svc.filter.IsActive == nil || *svc.filter.IsActive {
		t.Fatalf("isActive not parsed")
	}

	rec, _ = serve(t, http.MethodGet, "/users", "/users?role=owner", "", AdminUsersList(svc, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUserDeleteSelf(t *testing.T) {
	id := uuid.NewString()
	rec, _ := serve(t, http.MethodDelete, "/users/{id}", "/users/"+id, "", AdminUserDelete(&stubUsers{}, nil), asUser(id, "admin"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}
