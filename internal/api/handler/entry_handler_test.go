package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anu235shka/movies-task/internal/api/middleware"
	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

type stubEntryService struct {
	createFn func(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error)
	getFn    func(ctx context.Context, id string) (*domain.Entry, error)
	updateFn func(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error)
}

func (s *stubEntryService) CreateEntry(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error) {
	return s.createFn(ctx, in)
}

func (s *stubEntryService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *stubEntryService) UpdateEntry(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error) {
	return s.updateFn(ctx, in)
}

func (s *stubEntryService) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubEntryService) ListEntries(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error) {
	return s.listFn(ctx, in)
}

func strPtr(s string) *string { return &s }

func sampleEntry() *domain.Entry {
	budget := 160000000.0
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Entry{
		ID:         "e1",
		Title:      "Inception",
		Type:       domain.EntryMovie,
		Director:   strPtr("Christopher Nolan"),
		Budget:     &budget,
		YearOrTime: strPtr("2010"),
		CreatedBy:  "u1",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func authed(c echo.Context) echo.Context {
	c.Set(middleware.IdentityKey, ports.Identity{UserID: "u1", Email: "alice@example.com"})
	return c
}

func TestEntryHandler_Create_Success(t *testing.T) {
	stub := &stubEntryService{
		createFn: func(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error) {
			if in.Title != "Inception" || in.Type != "MOVIE" || in.CreatedBy != "u1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Budget == nil || *in.Budget != 160000000 {
				t.Fatalf("budget string not parsed: %v", in.Budget)
			}
			if in.Director == nil || *in.Director != "Christopher Nolan" {
				t.Fatalf("unexpected director: %v", in.Director)
			}
			if in.Location != nil {
				t.Fatalf("absent location must stay nil")
			}
			return sampleEntry(), nil
		},
	}
	body := `{"title":"Inception","type":"MOVIE","director":"Christopher Nolan","budget":"160000000","yearOrTime":"2010"}`
	c, rec := jsonContext(http.MethodPost, "/api/entries", body)

	if err := NewEntryHandler(stub).Create(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "e1" || resp["yearOrTime"] != "2010" || resp["createdBy"] != "u1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if v, ok := resp["location"]; !ok || v != nil {
		t.Fatalf("absent optional field must be null, got %v (present=%v)", v, ok)
	}
	if _, ok := resp["createdAt"]; !ok {
		t.Fatalf("createdAt missing")
	}
}

func TestEntryHandler_Create_Validation(t *testing.T) {
	stub := &stubEntryService{
		createFn: func(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	cases := map[string]string{
		"missing title": `{"type":"MOVIE"}`,
		"bad type":      `{"title":"Dune","type":"BOOK"}`,
		"bad budget":    `{"title":"Dune","type":"MOVIE","budget":"lots"}`,
		"NaN budget":    `{"title":"Dune","type":"MOVIE","budget":"NaN"}`,
		"Inf budget":    `{"title":"Dune","type":"MOVIE","budget":"Inf"}`,
		"malformed":     `{"title":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := jsonContext(http.MethodPost, "/api/entries", body)
			if err := NewEntryHandler(stub).Create(authed(c)); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestEntryHandler_Create_EmptyBudgetIsAbsent(t *testing.T) {
	stub := &stubEntryService{
		createFn: func(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error) {
			if in.Budget != nil {
				t.Fatalf("expected nil budget, got %v", *in.Budget)
			}
			return sampleEntry(), nil
		},
	}
	c, _ := jsonContext(http.MethodPost, "/api/entries", `{"title":"Dune","type":"MOVIE","budget":""}`)
	if err := NewEntryHandler(stub).Create(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	stub := &stubEntryService{
		getFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrEntryNotFound
		},
	}
	c, _ := jsonContext(http.MethodGet, "/api/entries/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := NewEntryHandler(stub).Get(authed(c)); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryHandler_Update_PartialFields(t *testing.T) {
	stub := &stubEntryService{
		updateFn: func(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error) {
			if in.ID != "e1" {
				t.Fatalf("unexpected id %q", in.ID)
			}
			if in.Title != nil || in.Type != nil || in.Budget != nil {
				t.Fatalf("unsupplied fields must be nil: %+v", in)
			}
			if in.Location == nil || *in.Location != "" {
				t.Fatalf("empty location must reach the service to clear it")
			}
			if in.Duration == nil || *in.Duration != "148 min" {
				t.Fatalf("unexpected duration: %v", in.Duration)
			}
			return sampleEntry(), nil
		},
	}
	c, rec := jsonContext(http.MethodPut, "/api/entries/e1", `{"location":"","duration":"148 min"}`)
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := NewEntryHandler(stub).Update(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEntryHandler_Update_InvalidType(t *testing.T) {
	stub := &stubEntryService{
		updateFn: func(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := jsonContext(http.MethodPut, "/api/entries/e1", `{"type":"PODCAST"}`)
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := NewEntryHandler(stub).Update(authed(c)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEntryHandler_Update_NonFiniteBudget(t *testing.T) {
	stub := &stubEntryService{
		updateFn: func(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := jsonContext(http.MethodPut, "/api/entries/e1", `{"budget":"Infinity"}`)
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := NewEntryHandler(stub).Update(authed(c)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	deleted := ""
	stub := &stubEntryService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c, rec := jsonContext(http.MethodDelete, "/api/entries/e1", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := NewEntryHandler(stub).Delete(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "e1" {
		t.Fatalf("expected e1 deleted, got %q", deleted)
	}
	if rec.Body.String() != "{\"success\":true}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestEntryHandler_List(t *testing.T) {
	stub := &stubEntryService{
		listFn: func(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error) {
			if in.Page != 2 || in.Limit != 1 || in.Search != "nolan" || in.Type != "MOVIE" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListEntriesResult{
				Items:      []*domain.Entry{sampleEntry()},
				Total:      3,
				Page:       2,
				Limit:      1,
				TotalPages: 3,
			}, nil
		},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/entries?page=2&limit=1&search=nolan&type=MOVIE", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewEntryHandler(stub).List(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Page != 2 || resp.Limit != 1 || resp.Total != 3 || resp.TotalPages != 3 || len(resp.Data) != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestEntryHandler_List_EmptyDataIsArray(t *testing.T) {
	stub := &stubEntryService{
		listFn: func(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error) {
			return &ports.ListEntriesResult{Page: 1, Limit: 20}, nil
		},
	}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/entries", nil), rec)

	if err := NewEntryHandler(stub).List(authed(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data, ok := resp["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty array, got %v", resp["data"])
	}
}
