package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/matmaster-backend/internal/stock"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
)

type stubStock struct {
	stock.Service
	filter  stock.ListFilter
	input   stock.CreateEntryInput
	actor   string
	code    string
	deleted uuid.UUID
}

func (s *stubStock) List(ctx context.Context, filter stock.ListFilter) ([]stock.EntryDTO, error) {
	s.filter = filter
	return []stock.EntryDTO{}, nil
}

func (s *stubStock) Create(ctx context.Context, input stock.CreateEntryInput, actor string) (*stock.EntryDTO, error) {
	s.input, s.actor = input, actor
	if input.MaterialCode == "99999" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return &stock.EntryDTO{MaterialCode: input.MaterialCode, Quantity: input.Quantity}, nil
}

func (s *stubStock) Balance(ctx context.Context, materialCode string) (*stock.BalanceDTO, error) {
	s.code = materialCode
	return &stock.BalanceDTO{
		MaterialCode: materialCode,
		TotalCredit:  decimal.NewFromInt(12),
		TotalDebit:   decimal.NewFromInt(3),
		Balance:      decimal.NewFromInt(9),
	}, nil
}

func (s *stubStock) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

func TestStockCreate(t *testing.T) {
	svc := &stubStock{}
	body := `{"materialCode":"10001","quantity":"2.5","unit":"KG","entryType":"Credit"}`
	rec, _ := serve(t, http.MethodPost, "/stock", "/stock", body, StockCreate(svc, nil), asUser(uuid.NewString(), "janee"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.actor != "janee" || svc.input.Unit != enums.UnitKilogram {
		t.Fatalf("unexpected forward actor=%q input=%+v", svc.actor, svc.input)
	}
	if !svc.input.Quantity.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected quantity %s", svc.input.Quantity)
	}
}

func TestStockCreateValidation(t *testing.T) {
	cases := []string{
		`{"materialCode":"10001","quantity":"1","unit":"LB","entryType":"Credit"}`,
		`{"materialCode":"10001","quantity":"1","unit":"EA","entryType":"Transfer"}`,
		`{"quantity":"1","unit":"EA","entryType":"Credit"}`,
	}
	for _, body := range cases {
		rec, _ := serve(t, http.MethodPost, "/stock", "/stock", body, StockCreate(&stubStock{}, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, rec.Code)
		}
	}
}

func TestStockCreateUnknownMaterial(t *testing.T) {
	body := `{"materialCode":"99999","quantity":"1","unit":"EA","entryType":"Debit"}`
	rec, _ := serve(t, http.MethodPost, "/stock", "/stock", body, StockCreate(&stubStock{}, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestStockBalance(t *testing.T) {
	svc := &stubStock{}
	rec, env := serve(t, http.MethodGet, "/stock/balance/{materialCode}", "/stock/balance/10001", "", StockBalance(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.code != "10001" {
		t.Fatalf("unexpected code %q", svc.code)
	}
	if !strings.Contains(string(env.Data), `"balance":"9"`) {
		t.Fatalf("unexpected data %s", env.Data)
	}
}

func TestStockListFilters(t *testing.T) {
	svc := &stubStock{}
	rec, _ := serve(t, http.MethodGet, "/stock", "/stock?materialCode=10001&entryType=Debit", "", StockList(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filter.MaterialCode != "10001" || svc.filter.EntryType == nil || *svc.filter.EntryType != enums.EntryTypeDebit {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}

	rec, _ = serve(t, http.MethodGet, "/stock", "/stock?entryType=bogus", "", StockList(svc, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestStockDelete(t *testing.T) {
	svc := &stubStock{}
	id := uuid.New()
	rec, _ := serve(t, http.MethodDelete, "/stock/{id}", "/stock/"+id.String(), "", StockDelete(svc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.deleted != id {
		t.Fatalf("id not forwarded")
	}
}
