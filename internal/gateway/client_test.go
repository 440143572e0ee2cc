package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/simp-lee/memberbase/internal/config"
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

type recordedToast struct {
	sessionID string
	message   string
	severity  notify.Severity
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []recordedToast
}

func (f *fakeNotifier) Notify(sessionID, message string, severity notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toasts = append(f.toasts, recordedToast{sessionID, message, severity})
}

func (f *fakeNotifier) all() []recordedToast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedToast(nil), f.toasts...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeNotifier, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	notifier := &fakeNotifier{}
	client := NewClient(&config.BackendConfig{
		BaseURL: srv.URL,
		Route:   "admin",
	}, notifier, nil)
	return client, notifier, srv
}

func testCtx() context.Context {
	return notify.WithSessionID(context.Background(), "sess-1")
}

func TestDoSendsBearerTokenWhenPresent(t *testing.T) {
	var gotAuth string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":200,"data":{"ok":true}}`))
	})

	ctx := WithToken(testCtx(), "tok-123")
	if err := client.Do(ctx, call{method: http.MethodPost, path: "/ping"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":200,"data":{"ok":true}}`))
	})

	if err := client.Do(testCtx(), call{method: http.MethodPost, path: "/ping"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestDoDecodesDataAndStaysSilentOnSuccess(t *testing.T) {
	client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{"_id":"c1","name":"Deshastha"}}`))
	})

	var out domain.Caste
	if err := client.Do(testCtx(), call{method: http.MethodPost, path: "/fetch"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ID != "c1" || out.Name != "Deshastha" {
		t.Errorf("decoded %+v", out)
	}
	if got := notifier.all(); len(got) != 0 {
		t.Errorf("success emitted %d toasts, want 0", len(got))
	}
}

func TestDoAcceptsEmptyCollections(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty array", `{"status":200,"data":[]}`},
		{"empty object", `{"status":200,"data":{}}`},
		{"created", `{"status":201,"data":{"_id":"x"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			if err := client.Do(testCtx(), call{method: http.MethodPost, path: "/x"}, nil); err != nil {
				t.Fatalf("Do: %v", err)
			}
			if got := notifier.all(); len(got) != 0 {
				t.Errorf("emitted %d toasts, want 0", len(got))
			}
		})
	}
}

func TestDoRejectsFalsyData(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"null data", `{"status":200,"data":null}`},
		{"missing data", `{"status":200}`},
		{"false data", `{"status":200,"data":false}`},
		{"zero data", `{"status":200,"data":0}`},
		{"empty string data", `{"status":200,"data":""}`},
		{"success flag false", `{"status":200,"success":false,"data":{"_id":"x"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})

			err := client.Do(testCtx(), call{
				method:   http.MethodPost,
				path:     "/x",
				fallback: "Nothing here",
			}, nil)
			if err == nil {
				t.Fatal("Do succeeded, want error")
			}

			got := notifier.all()
			if len(got) != 1 {
				t.Fatalf("emitted %d toasts, want exactly 1", len(got))
			}
			if got[0].message != "Nothing here" {
				t.Errorf("toast message = %q, want fallback", got[0].message)
			}
			if got[0].sessionID != "sess-1" {
				t.Errorf("toast session = %q", got[0].sessionID)
			}
		})
	}
}

func TestDoPrefersServerMessageOverFallback(t *testing.T) {
	client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"data":null,"message":"No castes found"}`))
	})

	err := client.Do(testCtx(), call{
		method:   http.MethodPost,
		path:     "/fetchAllCastes",
		fallback: "generic fallback",
		severity: notify.SeverityWarning,
	}, nil)
	if err == nil {
		t.Fatal("Do succeeded, want error")
	}

	got := notifier.all()
	if len(got) != 1 {
		t.Fatalf("emitted %d toasts, want exactly 1", len(got))
	}
	if got[0].message != "No castes found" {
		t.Errorf("toast message = %q, want server message", got[0].message)
	}
	if got[0].severity != notify.SeverityWarning {
		t.Errorf("toast severity = %q, want warning", got[0].severity)
	}
}

func TestDoServerErrorNotifiesGenericOnce(t *testing.T) {
	client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":500,"data":null}`))
	})

	err := client.Do(testCtx(), call{method: http.MethodPost, path: "/x"}, nil)
	if err == nil {
		t.Fatal("Do succeeded, want error")
	}
	if !domain.IsUpstream(err) {
		t.Errorf("error = %v, want upstream AppError", err)
	}

	got := notifier.all()
	if len(got) != 1 {
		t.Fatalf("emitted %d toasts, want exactly 1", len(got))
	}
	if got[0].message != genericFailure {
		t.Errorf("toast message = %q, want %q", got[0].message, genericFailure)
	}
	if got[0].severity != notify.SeverityError {
		t.Errorf("toast severity = %q, want error", got[0].severity)
	}
}

func TestDoMalformedEnvelopeNotifiesOnce(t *testing.T) {
	client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})

	if err := client.Do(testCtx(), call{method: http.MethodPost, path: "/x"}, nil); err == nil {
		t.Fatal("Do succeeded, want error")
	}
	if got := notifier.all(); len(got) != 1 {
		t.Fatalf("emitted %d toasts, want exactly 1", len(got))
	}
}

func TestDoUnreachableBackendNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	notifier := &fakeNotifier{}
	client := NewClient(&config.BackendConfig{BaseURL: srv.URL, Route: "admin"}, notifier, nil)

	if err := client.Do(testCtx(), call{method: http.MethodPost, path: "/x"}, nil); err == nil {
		t.Fatal("Do succeeded, want error")
	}
	if got := notifier.all(); len(got) != 1 {
		t.Fatalf("emitted %d toasts, want exactly 1", len(got))
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"null", false},
		{"false", false},
		{"0", false},
		{`""`, false},
		{"", false},
		{"[]", true},
		{"{}", true},
		{"true", true},
		{"1", true},
		{`"ok"`, true},
		{`[{"_id":"a"}]`, true},
	}
	for _, tc := range cases {
		if got := truthy([]byte(tc.raw)); got != tc.want {
			t.Errorf("truthy(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
