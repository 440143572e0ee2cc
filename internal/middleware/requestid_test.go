package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter(trustUpstream bool) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var captured string
	r := gin.New()
	r.Use(RequestID(trustUpstream))
	r.GET("/", func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestRequestIDGenerated(t *testing.T) {
	r, captured := requestIDRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if *captured == "" {
		t.Fatal("no request ID stored in context")
	}
	if got := w.Header().Get("X-Request-ID"); got != *captured {
		t.Errorf("response header = %q, context = %q; want equal", got, *captured)
	}
}

func TestRequestIDIgnoresUpstreamByDefault(t *testing.T) {
	r, captured := requestIDRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if *captured == "upstream-id" {
		t.Error("untrusted upstream ID was reused")
	}
}

func TestRequestIDTrustsValidUpstream(t *testing.T) {
	r, captured := requestIDRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if *captured != "upstream-id" {
		t.Errorf("request ID = %q, want upstream-id", *captured)
	}
}

func TestRequestIDRejectsMalformedUpstream(t *testing.T) {
	r, captured := requestIDRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces!")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if *captured == "bad id with spaces!" {
		t.Error("malformed upstream ID was reused")
	}
	if *captured == "" {
		t.Error("no fallback ID generated")
	}
}
