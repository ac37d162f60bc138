package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/matmaster-backend/internal/materials"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/pagination"
)

type stubMaterials struct {
	materials.Service
	filter   materials.ListFilter
	page     pagination.Params
	actor    string
	created  materials.CreateMaterialInput
	restored uuid.UUID
}

func (s *stubMaterials) List(ctx context.Context, filter materials.ListFilter, page pagination.Params) (*pagination.Page[materials.MaterialDTO], error) {
	s.filter, s.page = filter, page
	return &pagination.Page[materials.MaterialDTO]{Items: []materials.MaterialDTO{}}, nil
}

func (s *stubMaterials) ListArchived(ctx context.Context, filter materials.ListFilter, page pagination.Params) (*pagination.Page[materials.ArchivedMaterialDTO], error) {
	s.filter, s.page = filter, page
	return &pagination.Page[materials.ArchivedMaterialDTO]{Items: []materials.ArchivedMaterialDTO{}}, nil
}

func (s *stubMaterials) NextCode(ctx context.Context, class enums.MaterialClass) (*materials.NextCodeDTO, error) {
	return &materials.NextCodeDTO{Class: class, MaterialCode: class.CodePrefix() + "0001"}, nil
}

func (s *stubMaterials) Create(ctx context.Context, input materials.CreateMaterialInput, actor string) (*materials.MaterialDTO, error) {
	s.created, s.actor = input, actor
	return &materials.MaterialDTO{MaterialCode: "10001", Class: input.Class}, nil
}

func (s *stubMaterials) Archive(ctx context.Context, id uuid.UUID, actor string) (*materials.ArchivedMaterialDTO, error) {
	s.actor = actor
	return &materials.ArchivedMaterialDTO{OriginalID: id, ArchivedBy: actor}, nil
}

func (s *stubMaterials) Restore(ctx context.Context, id uuid.UUID) (*materials.MaterialDTO, error) {
	s.restored = id
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "material already exists in master")
}

func TestMaterialsListParsesFilters(t *testing.T) {
	svc := &stubMaterials{}
	rec, _ := serve(t, http.MethodGet, "/master", "/master?class=A&materialFlow=BOM&status=active&search=%20bolt%20&limit=5&cursor=abc", "", MaterialsList(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filter.Class == nil || *svc.filter.Class != enums.MaterialClassA {
		t.Fatalf("class not parsed: %+v", svc.filter)
	}
	if svc.filter.Flow == nil || *svc.filter.Flow != enums.MaterialFlowBOM {
		t.Fatalf("flow not parsed: %+v", svc.filter)
	}
	if svc.filter.Status == nil || *svc.filter.Status != enums.MaterialStatusActive {
		t.Fatalf("status not parsed: %+v", svc.filter)
	}
	if svc.filter.Search != "bolt" {
		t.Fatalf("search not trimmed: %q", svc.filter.Search)
	}
	if svc.page.Limit != 5 || svc.page.Cursor != "abc" {
		t.Fatalf("unexpected page %+v", svc.page)
	}
}

func TestMaterialsListRejectsBadQuery(t *testing.T) {
	for _, target := range []string{"/master?class=Z", "/master?materialFlow=XYZ", "/master?limit=0", "/master?limit=abc"} {
		rec, _ := serve(t, http.MethodGet, "/master", target, "", MaterialsList(&stubMaterials{}, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
}

func TestMaterialNextCode(t *testing.T) {
	rec, env := serve(t, http.MethodGet, "/next-code", "/next-code?class=D", "", MaterialNextCode(&stubMaterials{}, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(string(env.Data), `"materialCode":"40001"`) {
		t.Fatalf("unexpected data %s", env.Data)
	}

	rec, _ = serve(t, http.MethodGet, "/next-code", "/next-code", "", MaterialNextCode(&stubMaterials{}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without class got %d", rec.Code)
	}
}

func TestMaterialCreateUsesLoginID(t *testing.T) {
	svc := &stubMaterials{}
	body := `{"materialFlow":"BOM","class":"A","materialName":"Hex bolt","unit":"EA","gstRate":"18","cost":"2.50"}`
	rec, _ := serve(t, http.MethodPost, "/master", "/master", body, MaterialCreate(svc, nil), asUser(uuid.NewString(), "janee"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.actor != "janee" {
		t.Fatalf("expected actor janee got %q", svc.actor)
	}
	if svc.created.Cost.String() != "2.5" {
		t.Fatalf("unexpected cost %s", svc.created.Cost)
	}
}

func TestMaterialCreateRejectsClientCode(t *testing.T) {
	body := `{"materialCode":"19999","materialFlow":"BOM","class":"A","materialName":"Hex bolt","unit":"EA"}`
	rec, _ := serve(t, http.MethodPost, "/master", "/master", body, MaterialCreate(&stubMaterials{}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMaterialArchiveAndRestore(t *testing.T) {
	svc := &stubMaterials{}
	id := uuid.New()
	rec, _ := serve(t, http.MethodPost, "/master/{id}/archive", "/master/"+id.String()+"/archive", "", MaterialArchive(svc, nil), asUser(uuid.NewString(), "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.actor != "admin" {
		t.Fatalf("unexpected actor %q", svc.actor)
	}

	rec, _ = serve(t, http.MethodPost, "/archive/{id}/restore", "/archive/"+id.String()+"/restore", "", ArchiveRestore(svc, nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.restored != id {
		t.Fatalf("restore id not forwarded")
	}
}

func TestArchiveListSharesFilters(t *testing.T) {
	svc := &stubMaterials{}
	rec, _ := serve(t, http.MethodGet, "/archive", "/archive?category=fasteners", "", ArchiveList(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filter.Category != "fasteners" || svc.page.Limit != pagination.DefaultLimit {
		t.Fatalf("unexpected filter %+v page %+v", svc.filter, svc.page)
	}
}
