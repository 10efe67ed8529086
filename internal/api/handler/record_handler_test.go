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

	"github.com/storehouse/access-api/internal/core/domain"
)

type stubRecordService struct {
	createFn func(ctx context.Context, collection string, fields map[string]any) (*domain.Record, error)
	listFn   func(ctx context.Context, collection string) ([]*domain.Record, error)
	getFn    func(ctx context.Context, collection, id string) (*domain.Record, error)
	updateFn func(ctx context.Context, collection, id string, fields map[string]any) (*domain.Record, error)
	deleteFn func(ctx context.Context, collection, id string) (int64, error)
}

func (s *stubRecordService) Create(ctx context.Context, collection string, fields map[string]any) (*domain.Record, error) {
	return s.createFn(ctx, collection, fields)
}

func (s *stubRecordService) List(ctx context.Context, collection string) ([]*domain.Record, error) {
	return s.listFn(ctx, collection)
}

func (s *stubRecordService) Get(ctx context.Context, collection, id string) (*domain.Record, error) {
	return s.getFn(ctx, collection, id)
}

func (s *stubRecordService) Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Record, error) {
	return s.updateFn(ctx, collection, id, fields)
}

func (s *stubRecordService) Delete(ctx context.Context, collection, id string) (int64, error) {
	return s.deleteFn(ctx, collection, id)
}

func newRecordContext(e *echo.Echo, method, body string, paramNames, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	return c, rec
}

func TestRecordHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		createFn: func(_ context.Context, collection string, fields map[string]any) (*domain.Record, error) {
			if collection != "food" {
				t.Fatalf("unexpected collection: %s", collection)
			}
			if fields["name"] != "banana" {
				t.Fatalf("unexpected fields: %+v", fields)
			}
			return &domain.Record{ID: "abc", Collection: domain.CollectionFood, Fields: fields}, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, rec := newRecordContext(e, http.MethodPost, `{"name":"banana","calories":100,"type":"fruit"}`, []string{"collection"}, []string{"food"})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["name"] != "banana" || resp["id"] != "abc" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRecordHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		listFn: func(_ context.Context, collection string) ([]*domain.Record, error) {
			return []*domain.Record{
				{ID: "1", Fields: map[string]any{"name": "banana"}},
				{ID: "2", Fields: map[string]any{"name": "apple"}},
			}, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, rec := newRecordContext(e, http.MethodGet, "", []string{"collection"}, []string{"food"})

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["name"] != "banana" || resp[1]["id"] != "2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRecordHandler_ListEmpty(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		listFn: func(context.Context, string) ([]*domain.Record, error) {
			return nil, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, rec := newRecordContext(e, http.MethodGet, "", []string{"collection"}, []string{"food"})

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// Empty collections serialize as [], never null.
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected [], got %s", rec.Body.String())
	}
}

func TestRecordHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		getFn: func(context.Context, string, string) (*domain.Record, error) {
			return nil, domain.ErrRecordNotFound
		},
	}
	handler := NewRecordHandler(stub)

	c, _ := newRecordContext(e, http.MethodGet, "", []string{"collection", "id"}, []string{"food", "missing"})

	if err := handler.Get(c); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordHandler_Update(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		updateFn: func(_ context.Context, collection, id string, fields map[string]any) (*domain.Record, error) {
			if collection != "clothes" || id != "42" {
				t.Fatalf("unexpected args: %s %s", collection, id)
			}
			return &domain.Record{ID: id, Fields: fields}, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, rec := newRecordContext(e, http.MethodPut, `{"name":"pants","color":"black","size":"medium"}`, []string{"collection", "id"}, []string{"clothes", "42"})

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["name"] != "pants" || resp["id"] != "42" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRecordHandler_Delete(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		deleteFn: func(_ context.Context, collection, id string) (int64, error) {
			return 1, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, rec := newRecordContext(e, http.MethodDelete, "", []string{"collection", "id"}, []string{"food", "1"})

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// The response body is the bare deleted count.
	if strings.TrimSpace(rec.Body.String()) != "1" {
		t.Fatalf("expected bare count 1, got %s", rec.Body.String())
	}
}

func TestRecordHandler_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubRecordService{
		createFn: func(context.Context, string, map[string]any) (*domain.Record, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewRecordHandler(stub)

	c, _ := newRecordContext(e, http.MethodPost, "not-json", []string{"collection"}, []string{"food"})

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
