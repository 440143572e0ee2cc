package circular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/simp-lee/memberbase/internal/config"
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

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

func newWithdrawFixture(t *testing.T) (*Service, *notify.Center, *fakeAuditLog) {
	t.Helper()

	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasPrefix(r.URL.Path, "/admin/circulars"):
			w.Write([]byte(`{"status":200,"data":{"docs":[{"_id":"circ1","title":"Annual meet"}],"totalDocs":1,"limit":10,"page":1,"totalPages":1}}`))
		case strings.HasPrefix(r.URL.Path, "/admin/deleteCircular/"):
			w.Write([]byte(`{"status":200,"data":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":404,"data":null}`))
		}
	}))
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
	return svc, center, audit
}

func TestWithdrawConfirmedToastsWithdrawnMessage(t *testing.T) {
	svc, center, audit := newWithdrawFixture(t)

	sess := &domain.Session{ID: "sess-1", AdminEmail: "admin@example.com"}
	ctx := notify.WithSessionID(context.Background(), sess.ID)

	done := make(chan error, 1)
	go func() {
		done <- svc.Withdraw(ctx, sess, "circ1")
	}()

	prompt := waitForPrompt(t, center, sess.ID)
	if prompt.Title != "Withdraw circular?" {
		t.Errorf("prompt title = %q", prompt.Title)
	}
	center.Resolve(sess.ID, prompt.ID, true)

	if err := <-done; err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	toasts := center.Drain(sess.ID)
	if len(toasts) != 1 {
		t.Fatalf("got %d toasts, want exactly 1", len(toasts))
	}
	if toasts[0].Message != "Circular withdrawn successfully" || toasts[0].Severity != notify.SeveritySuccess {
		t.Errorf("toast = %+v", toasts[0])
	}

	entries := audit.all()
	if len(entries) != 1 || entries[0].Action != "delete" || !entries[0].Succeeded {
		t.Errorf("audit entries = %+v", entries)
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
