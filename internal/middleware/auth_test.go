package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/notify"
)

const testCookie = "memberbase_session"

type fakeSessionStore struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionStore) Create(ctx context.Context, s *domain.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.Expired() {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteExpired(ctx context.Context) error { return nil }

func storeWith(sessions ...*domain.Session) *fakeSessionStore {
	f := &fakeSessionStore{sessions: make(map[string]*domain.Session)}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func authRouter(store domain.SessionStore, opts AuthOptions, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(store, testCookie, opts), handler)
	return r
}

func TestAuthAttachesTokenAndSession(t *testing.T) {
	sess := &domain.Session{
		ID:         "sess-1",
		AdminEmail: "admin@example.com",
		Token:      "backend-token",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	var gotToken, gotSessionID string
	var gotSession *domain.Session
	r := authRouter(storeWith(sess), AuthOptions{}, func(c *gin.Context) {
		gotToken = gateway.TokenFromContext(c.Request.Context())
		gotSessionID = notify.SessionIDFromContext(c.Request.Context())
		gotSession = CurrentSession(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotToken != "backend-token" {
		t.Errorf("token in context = %q, want backend-token", gotToken)
	}
	if gotSessionID != "sess-1" {
		t.Errorf("session id in context = %q, want sess-1", gotSessionID)
	}
	if gotSession == nil || gotSession.AdminEmail != "admin@example.com" {
		t.Errorf("CurrentSession = %+v", gotSession)
	}
}

func TestAuthRejectsMissingCookieWithJSON(t *testing.T) {
	r := authRouter(storeWith(), AuthOptions{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthRedirectsPagesToLogin(t *testing.T) {
	r := authRouter(storeWith(), AuthOptions{RedirectToLogin: true}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}
}

func TestAuthClearsCookieForUnknownSession(t *testing.T) {
	r := authRouter(storeWith(), AuthOptions{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "gone"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale session cookie was not cleared")
	}
}

func TestAuthRejectsExpiredSession(t *testing.T) {
	sess := &domain.Session{
		ID:        "sess-old",
		Token:     "t",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	r := authRouter(storeWith(sess), AuthOptions{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "sess-old"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
