package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
	"github.com/storehouse/access-api/internal/core/service"
)

// memoryAuthRepository is a map-backed credential store preserving creation
// order, with the same uniqueness contract as the mongo implementation.
type memoryAuthRepository struct {
	mu    sync.Mutex
	users []*domain.User
}

func (r *memoryAuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	stored := *user
	stored.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	stored.CreatedAt = time.Now()
	r.users = append(r.users, &stored)
	out := stored
	return &out, nil
}

func (r *memoryAuthRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryAuthRepository) ListUsernames(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usernames := make([]string, 0, len(r.users))
	for _, u := range r.users {
		usernames = append(usernames, u.Username)
	}
	return usernames, nil
}

// memoryRecordRepository keeps per-collection records in insertion order.
type memoryRecordRepository struct {
	mu      sync.Mutex
	nextID  int
	records map[domain.Collection][]*domain.Record
}

func newMemoryRecordRepository() *memoryRecordRepository {
	return &memoryRecordRepository{records: make(map[domain.Collection][]*domain.Record)}
}

func (r *memoryRecordRepository) Create(_ context.Context, collection domain.Collection, fields map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	rec := &domain.Record{
		ID:         fmt.Sprintf("rec-%d", r.nextID),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.records[collection] = append(r.records[collection], rec)
	out := *rec
	return &out, nil
}

func (r *memoryRecordRepository) List(_ context.Context, collection domain.Collection) ([]*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Record, 0, len(r.records[collection]))
	for _, rec := range r.records[collection] {
		clone := *rec
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memoryRecordRepository) Get(_ context.Context, collection domain.Collection, id string) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records[collection] {
		if rec.ID == id {
			out := *rec
			return &out, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *memoryRecordRepository) Update(_ context.Context, collection domain.Collection, id string, fields map[string]any) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records[collection] {
		if rec.ID == id {
			rec.Fields = fields
			rec.UpdatedAt = time.Now()
			out := *rec
			return &out, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *memoryRecordRepository) Delete(_ context.Context, collection domain.Collection, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := r.records[collection]
	for i, rec := range recs {
		if rec.ID == id {
			r.records[collection] = append(recs[:i], recs[i+1:]...)
			return 1, nil
		}
	}
	return 0, domain.ErrRecordNotFound
}

// memoryAuditRepository appends events in arrival order.
type memoryAuditRepository struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *memoryAuditRepository) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memoryAuditRepository) ListByUsername(_ context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditEvent
	for _, e := range r.events {
		if e.Username != username {
			continue
		}
		clone := e
		out = append(out, &clone)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// syncAuditor bypasses the dispatcher so the trail is readable immediately
// after the request that produced the events.
type syncAuditor struct {
	service ports.AuditService
}

func (a syncAuditor) Record(event domain.AuditEvent) {
	_ = a.service.Process(context.Background(), event)
}

// newTestRouter builds the full routing surface against in-memory stores.
// echoprometheus registers its collectors with the global prometheus registry,
// so the router is constructed once and shared by the sequential subtests.
func newTestRouter() *echo.Echo {
	log := zerolog.Nop()
	auditService := service.NewAuditService(&memoryAuditRepository{}, log)
	authService := service.NewAuthService(
		&memoryAuthRepository{},
		service.NewTokenService("router-test-secret", time.Hour),
		nil,
		syncAuditor{service: auditService},
		log,
	)
	recordService := service.NewRecordService(newMemoryRecordRepository(), log)
	return NewRouter(Dependencies{
		AuthService:   authService,
		RecordService: recordService,
		AuditService:  auditService,
		Logger:        log,
	})
}

func doRequest(e *echo.Echo, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func basicHeader(username, password string) map[string]string {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return map[string]string{echo.HeaderAuthorization: "Basic " + token}
}

func bearerHeader(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func decodeUser(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("invalid json %q: %v", body, err)
	}
	user, ok := payload["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user object in %q", body)
	}
	return user
}

func TestRouter(t *testing.T) {
	e := newTestRouter()

	var adminToken, userToken string

	t.Run("signup creates admin account", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/signup",
			`{"username":"test","password":"test","role":"admin"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		user := decodeUser(t, rec.Body.Bytes())
		if user["username"] != "test" {
			t.Fatalf("unexpected username: %v", user["username"])
		}
		if _, ok := user["token"]; ok {
			t.Fatal("signup response must not carry a token")
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Fatalf("credential material leaked: %s", rec.Body.String())
		}
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/signup",
			`{"username":"test","password":"other","role":"user"}`, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body["error"] == "" {
			t.Fatalf("expected error message, got %s", rec.Body.String())
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/signup",
			`{"username":"root","password":"root","role":"superuser"}`, nil)
		if rec.Code != http.StatusUnprocessableEntity && rec.Code != http.StatusBadRequest {
			t.Fatalf("expected validation failure, got %d", rec.Code)
		}
	})

	t.Run("signin issues token", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/signin", "", basicHeader("test", "test"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		user := decodeUser(t, rec.Body.Bytes())
		token, _ := user["token"].(string)
		if token == "" {
			t.Fatal("expected a token in the signin response")
		}
		adminToken = token
	})

	t.Run("signin failures are indistinguishable", func(t *testing.T) {
		wrongPassword := doRequest(e, http.MethodPost, "/signin", "", basicHeader("test", "nope"))
		unknownUser := doRequest(e, http.MethodPost, "/signin", "", basicHeader("ghost", "test"))

		if wrongPassword.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for wrong password, got %d", wrongPassword.Code)
		}
		if unknownUser.Code != wrongPassword.Code {
			t.Fatalf("status differs: %d vs %d", unknownUser.Code, wrongPassword.Code)
		}
		if unknownUser.Body.String() != wrongPassword.Body.String() {
			t.Fatalf("bodies differ: %q vs %q", unknownUser.Body.String(), wrongPassword.Body.String())
		}
		if !strings.Contains(wrongPassword.Body.String(), "authentication failed") {
			t.Fatalf("unexpected body: %s", wrongPassword.Body.String())
		}
	})

	t.Run("secret requires credentials", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/secret", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("secret rejects tampered token", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/secret", "", bearerHeader(adminToken+"x"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("secret with bearer token", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/secret", "", bearerHeader(adminToken))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.String() != "Welcome to the secret area" {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("secret with basic credentials", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/secret", "", basicHeader("test", "test"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("token is not a basic password", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/secret", "", basicHeader("test", adminToken))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("plain user cannot reach admin routes", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/signup",
			`{"username":"plain","password":"plain","role":"user"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("signup failed: %d %s", rec.Code, rec.Body.String())
		}
		rec = doRequest(e, http.MethodPost, "/signin", "", basicHeader("plain", "plain"))
		if rec.Code != http.StatusOK {
			t.Fatalf("signin failed: %d", rec.Code)
		}
		userToken, _ = decodeUser(t, rec.Body.Bytes())["token"].(string)
		if userToken == "" {
			t.Fatal("missing token for plain user")
		}

		rec = doRequest(e, http.MethodGet, "/users", "", bearerHeader(userToken))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("admin lists usernames in creation order", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/users", "", bearerHeader(adminToken))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var usernames []string
		if err := json.Unmarshal(rec.Body.Bytes(), &usernames); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(usernames) != 2 || usernames[0] != "test" || usernames[1] != "plain" {
			t.Fatalf("unexpected usernames: %v", usernames)
		}
	})

	t.Run("v1 crud is open", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/food",
			`{"name":"banana","calories":300,"type":"fruit"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var created map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		id, _ := created["id"].(string)
		if id == "" {
			t.Fatalf("missing id in %s", rec.Body.String())
		}
		if created["name"] != "banana" {
			t.Fatalf("fields not flattened: %s", rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, "/api/v1/food", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d", rec.Code)
		}
		var listed []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("expected 1 record, got %d", len(listed))
		}

		rec = doRequest(e, http.MethodPut, "/api/v1/food/"+id,
			`{"name":"banana","calories":120,"type":"fruit"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "120") {
			t.Fatalf("update not applied: %s", rec.Body.String())
		}

		rec = doRequest(e, http.MethodDelete, "/api/v1/food/"+id, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete failed: %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "1" {
			t.Fatalf("expected bare deleted count, got %q", rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, "/api/v1/food/"+id, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not found") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("unknown collection is not found", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v1/gadgets", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("v2 crud requires admin", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/v2/clothes", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without credentials, got %d", rec.Code)
		}

		rec = doRequest(e, http.MethodGet, "/api/v2/clothes", "", bearerHeader(userToken))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for plain user, got %d", rec.Code)
		}

		rec = doRequest(e, http.MethodPost, "/api/v2/clothes",
			`{"name":"jacket","color":"black","size":"M"}`, bearerHeader(adminToken))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, "/api/v1/clothes", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "jacket") {
			t.Fatalf("v1 and v2 must share the store: %s", rec.Body.String())
		}
	})

	t.Run("admin reads a user's audit trail", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/users/plain/audit", "", bearerHeader(userToken))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for plain user, got %d", rec.Code)
		}

		rec = doRequest(e, http.MethodGet, "/users/plain/audit", "", bearerHeader(adminToken))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var events []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(events) != 2 || events[0]["action"] != "signup" || events[1]["action"] != "signin_ok" {
			t.Fatalf("unexpected trail: %s", rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, "/users/plain/audit?limit=1", "", bearerHeader(adminToken))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("limit not applied: %s", rec.Body.String())
		}
	})

	t.Run("health liveness", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
