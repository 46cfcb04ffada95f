package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
	"github.com/octobees/leads-manager/internal/logging"
	"github.com/octobees/leads-manager/internal/repository"
	"github.com/octobees/leads-manager/internal/service"
	"github.com/octobees/leads-manager/internal/validation"
)

type failingLeadsRepository struct {
	repository.LeadsRepository
	err error
}

func (f *failingLeadsRepository) List(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error) {
	return nil, f.err
}

func (f *failingLeadsRepository) CreateMany(ctx context.Context, inputs []dto.LeadCreate) (int, error) {
	return 0, f.err
}

func newLeadsHandler(repo repository.LeadsRepository) *LeadsHandler {
	svc := service.NewLeadsService(repo, service.NewEnricher("US"), service.WithLogger(logging.Discard()))
	return NewLeadsHandler(svc)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.Echo(validation.Default())
	return e
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Detail
}

func TestLeadsHandler_CreateAndGet(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	req, rec := jsonRequest(http.MethodPost, "/api/leads", `{"name":"Jane Doe","company":"Acme","headcount":20}`)
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created entity.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode lead: %v", err)
	}
	if created.ID != 1 || created.Headcount == nil || *created.Headcount != 20 {
		t.Fatalf("unexpected lead: %+v", created)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leads/1", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	_ = h.Get(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLeadsHandler_CreateValidation(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	req, rec := jsonRequest(http.MethodPost, "/api/leads", `{"name":"","company":"Acme"}`)
	_ = h.Create(e.NewContext(req, rec))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	violations, ok := decodeDetail(t, rec).([]any)
	if !ok || len(violations) != 1 {
		t.Fatalf("expected one violation, got %v", decodeDetail(t, rec))
	}

	req, rec = jsonRequest(http.MethodPost, "/api/leads", `{"name":`)
	_ = h.Create(e.NewContext(req, rec))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed json, got %d", rec.Code)
	}
}

func TestLeadsHandler_NotFound(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	for name, call := range map[string]func(echo.Context) error{
		"get":    h.Get,
		"delete": h.Delete,
		"enrich": h.Enrich,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("42")

		_ = call(c)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", name, rec.Code)
		}
		if decodeDetail(t, rec) != "Lead not found" {
			t.Fatalf("%s: unexpected detail %v", name, decodeDetail(t, rec))
		}
	}
}

func TestLeadsHandler_InvalidID(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/leads/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	_ = h.Get(c)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestLeadsHandler_NonPositiveIDIsNotFound(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	for _, id := range []string{"0", "-1"} {
		for name, call := range map[string]struct {
			method string
			run    func(echo.Context) error
		}{
			"get":    {http.MethodGet, h.Get},
			"delete": {http.MethodDelete, h.Delete},
			"enrich": {http.MethodPost, h.Enrich},
		} {
			req := httptest.NewRequest(call.method, "/api/leads/"+id, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(id)

			_ = call.run(c)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s %s: expected 404, got %d", name, id, rec.Code)
			}
			if detail := decodeDetail(t, rec); detail != "Lead not found" {
				t.Fatalf("%s %s: unexpected detail %v", name, id, detail)
			}
		}
	}
}

func TestLeadsHandler_UpdateAndDelete(t *testing.T) {
	e := newEcho()
	repo := repository.NewMemoryLeadsRepository()
	h := newLeadsHandler(repo)
	if _, err := repo.Create(context.Background(), dto.LeadCreate{Name: "Jane", Company: "Acme"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req, rec := jsonRequest(http.MethodPut, "/api/leads/1", `{"industry":"Finance"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	_ = h.Update(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated entity.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode lead: %v", err)
	}
	if updated.Industry == nil || *updated.Industry != "Finance" || updated.Name != "Jane" || updated.UpdatedAt == nil {
		t.Fatalf("unexpected lead: %+v", updated)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/leads/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	_ = h.Delete(c)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestLeadsHandler_List(t *testing.T) {
	e := newEcho()
	repo := repository.NewMemoryLeadsRepository()
	h := newLeadsHandler(repo)
	for _, hc := range []int{5, 15, 60} {
		if _, err := repo.Create(context.Background(), dto.LeadCreate{Name: "Lead", Company: "Co", Headcount: dto.IntPtr(hc)}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/leads?headcount_min=10&headcount_max=50", nil)
	rec := httptest.NewRecorder()
	_ = h.List(e.NewContext(req, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var leads []entity.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &leads); err != nil {
		t.Fatalf("decode leads: %v", err)
	}
	if len(leads) != 1 || *leads[0].Headcount != 15 {
		t.Fatalf("unexpected leads: %+v", leads)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leads?headcount_min=ten", nil)
	rec = httptest.NewRecorder()
	_ = h.List(e.NewContext(req, rec))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad query, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec = httptest.NewRecorder()
	_ = newLeadsHandler(&failingLeadsRepository{err: errors.New("db down")}).List(e.NewContext(req, rec))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLeadsHandler_EmptyListIsArray(t *testing.T) {
	e := newEcho()
	h := newLeadsHandler(repository.NewMemoryLeadsRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	_ = h.List(e.NewContext(req, rec))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty json array, got %q", rec.Body.String())
	}
}
