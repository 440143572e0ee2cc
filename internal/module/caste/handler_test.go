package caste

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/config"
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/notify"
)

type fakeSessionStore struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionStore) Create(ctx context.Context, sess *domain.Session) error {
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if sess, ok := f.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.NewAppError(domain.CodeNotFound, "session not found", nil)
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteExpired(ctx context.Context) error { return nil }

type fakeAuditLog struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (f *fakeAuditLog) Record(ctx context.Context, entry *domain.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditLog) List(ctx context.Context, req domain.PageRequest) (*domain.AuditPage, error) {
	return &domain.AuditPage{}, nil
}

func (f *fakeAuditLog) all() []domain.AuditEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AuditEntry(nil), f.entries...)
}

// backendState is the fake management API behind the screen under test.
type backendState struct {
	mu          sync.Mutex
	listCalls   int
	deleteCalls int
	failCreate  bool
}

func (b *backendState) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch {
		case strings.HasPrefix(r.URL.Path, "/admin/fetchAllCastes"):
			b.listCalls++
			w.Write([]byte(`{"status":200,"data":{"docs":[{"_id":"c1","name":"Deshastha"}],"totalDocs":1,"limit":10,"page":1,"totalPages":1}}`))
		case strings.HasPrefix(r.URL.Path, "/admin/addCaste"):
			if b.failCreate {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"status":500,"data":null}`))
				return
			}
			w.Write([]byte(`{"status":201,"data":{"_id":"c2","name":"New"}}`))
		case strings.HasPrefix(r.URL.Path, "/admin/deleteCaste/"):
			b.deleteCalls++
			w.Write([]byte(`{"status":200,"data":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":404,"data":null}`))
		}
	}
}

func (b *backendState) counts() (list, del int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls, b.deleteCalls
}

type testHarness struct {
	router  *gin.Engine
	center  *notify.Center
	audit   *fakeAuditLog
	backend *backendState
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &backendState{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	center := notify.NewCenter(nil)
	client := gateway.NewClient(&config.BackendConfig{BaseURL: srv.URL, Route: "admin"}, center, nil)
	registry := listctrl.NewRegistry(time.Minute)
	t.Cleanup(registry.Close)
	audit := &fakeAuditLog{}

	svc := NewService(client, registry, center, audit, nil, listctrl.Options{
		Debounce: 10 * time.Millisecond,
		PageSize: 10,
	})

	store := &fakeSessionStore{sessions: map[string]*domain.Session{
		"sess-1": {
			ID:         "sess-1",
			AdminEmail: "admin@example.com",
			AdminName:  "Admin",
			Token:      "tok-1",
			ExpiresAt:  time.Now().Add(time.Hour),
		},
	}}

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(store, "memberbase_session", middleware.AuthOptions{}))
	pages := router.Group("/")
	NewModule(NewHandler(svc), NewPageHandler(svc)).RegisterRoutes(api, pages)

	return &testHarness{router: router, center: center, audit: audit, backend: backend}
}

func (h *testHarness) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "memberbase_session", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestStateActivatesAndReturnsFirstPage(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/v1/castes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Deshastha") {
		t.Errorf("response missing fetched docs: %s", rec.Body.String())
	}

	list, _ := h.backend.counts()
	if list != 1 {
		t.Errorf("list calls = %d, want 1", list)
	}
}

func TestStateWithoutSessionIsUnauthorized(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/castes", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateToastsOnceRefetchesAndAudits(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")

	rec := h.do(http.MethodPost, "/api/v1/castes", `{"name":"Chitpavan"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	toasts := h.center.Drain("sess-1")
	if len(toasts) != 1 {
		t.Fatalf("got %d toasts, want exactly 1", len(toasts))
	}
	if toasts[0].Message != "Caste added successfully" || toasts[0].Severity != notify.SeveritySuccess {
		t.Errorf("toast = %+v", toasts[0])
	}

	list, _ := h.backend.counts()
	if list != 2 {
		t.Errorf("list calls = %d, want 2 (activate + refetch)", list)
	}

	entries := h.audit.all()
	if len(entries) != 1 || entries[0].Action != "create" || !entries[0].Succeeded {
		t.Errorf("audit entries = %+v", entries)
	}
}

func TestCreateValidationFailureIsRejectedLocally(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/castes", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if toasts := h.center.Drain("sess-1"); len(toasts) != 0 {
		t.Errorf("validation failure emitted %d toasts, want 0", len(toasts))
	}
}

func TestCreateUpstreamFailureToastsOnceAndSkipsRefetch(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")
	h.backend.mu.Lock()
	h.backend.failCreate = true
	h.backend.mu.Unlock()

	rec := h.do(http.MethodPost, "/api/v1/castes", `{"name":"Doomed"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}

	toasts := h.center.Drain("sess-1")
	if len(toasts) != 1 {
		t.Fatalf("got %d toasts, want exactly 1 (from the gateway)", len(toasts))
	}
	if toasts[0].Severity != notify.SeverityError {
		t.Errorf("toast severity = %q", toasts[0].Severity)
	}

	list, _ := h.backend.counts()
	if list != 1 {
		t.Errorf("list calls = %d, want 1 (no refetch after failure)", list)
	}

	entries := h.audit.all()
	if len(entries) != 1 || entries[0].Succeeded {
		t.Errorf("audit entries = %+v", entries)
	}
}

func TestDeleteWaitsForConfirmThenDeletes(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- h.do(http.MethodDelete, "/api/v1/castes/c1", "")
	}()

	prompt := waitForPrompt(t, h.center, "sess-1")
	if prompt.Title != "Delete caste?" {
		t.Errorf("prompt title = %q", prompt.Title)
	}
	h.center.Resolve("sess-1", prompt.ID, true)

	rec := <-done
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	_, del := h.backend.counts()
	if del != 1 {
		t.Errorf("delete calls = %d, want 1", del)
	}

	toasts := h.center.Drain("sess-1")
	if len(toasts) != 1 || toasts[0].Message != "Caste deleted successfully" {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestDeleteDeclinedIsSilentNoOp(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")
	listBefore, _ := h.backend.counts()

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- h.do(http.MethodDelete, "/api/v1/castes/c1", "")
	}()

	prompt := waitForPrompt(t, h.center, "sess-1")
	h.center.Resolve("sess-1", prompt.ID, false)

	rec := <-done
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (decline is not an error)", rec.Code)
	}

	_, del := h.backend.counts()
	if del != 0 {
		t.Errorf("delete calls = %d, want 0", del)
	}
	if toasts := h.center.Drain("sess-1"); len(toasts) != 0 {
		t.Errorf("decline emitted %d toasts, want 0", len(toasts))
	}
	listAfter, _ := h.backend.counts()
	if listAfter != listBefore {
		t.Errorf("decline triggered a refetch: %d -> %d", listBefore, listAfter)
	}
	if entries := h.audit.all(); len(entries) != 0 {
		t.Errorf("declined delete was audited: %+v", entries)
	}
}

func TestSearchDebouncesBeforeFetching(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")

	for _, q := range []string{"d", "de", "des"} {
		rec := h.do(http.MethodPost, "/api/v1/castes/search", `{"query":"`+q+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("search status = %d", rec.Code)
		}
	}

	time.Sleep(60 * time.Millisecond)

	list, _ := h.backend.counts()
	if list != 2 {
		t.Errorf("list calls = %d, want 2 (activate + one debounced search)", list)
	}
}

func TestExportStreamsCSV(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/api/v1/castes", "")

	rec := h.do(http.MethodGet, "/api/v1/castes/export?format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "csv") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Deshastha") {
		t.Errorf("export missing rows: %s", rec.Body.String())
	}
}

func waitForPrompt(t *testing.T, center *notify.Center, sessionID string) notify.Prompt {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if pending := center.Pending(sessionID); len(pending) > 0 {
			return pending[0]
		}
		select {
		case <-deadline:
			t.Fatal("prompt never became pending")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
