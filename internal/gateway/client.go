// Package gateway is the console's HTTP client for the management API.
//
// It is the single place that decides whether a response is a failure and
// what message the user sees. Every failure path emits exactly one
// notification before returning an error, so callers may swallow the error
// for flow control without losing user feedback. Success paths emit nothing;
// success toasts belong to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/simp-lee/memberbase/internal/config"
	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

// genericFailure is what the user sees when the management API is
// unreachable or returns something the console cannot interpret.
const genericFailure = "Something went wrong!"

type tokenContextKey struct{}

// WithToken returns a context carrying the session's bearer token. The
// session middleware sets it once per request; every gateway call reads it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token carried by ctx, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// Client issues requests against the management API's admin endpoints.
type Client struct {
	httpClient *http.Client
	prefix     string
	notifier   notify.Notifier
	logger     *slog.Logger
}

// NewClient creates a Client for the configured backend. A missing bearer
// token is not an error: the call goes out unauthenticated and the server
// rejects it, which surfaces like any other upstream failure.
func NewClient(cfg *config.BackendConfig, notifier notify.Notifier, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		prefix:     cfg.EndpointPrefix(),
		notifier:   notifier,
		logger:     logger,
	}
}

// envelope is the response shape every admin endpoint shares. Status mirrors
// the HTTP status code; some endpoints additionally set Success.
type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success *bool           `json:"success"`
}

// call describes one request: where it goes, what it carries, and how a
// failure is reported when the server gives no message of its own.
type call struct {
	method      string
	path        string
	body        any
	contentType string
	raw         io.Reader
	fallback    string
	severity    notify.Severity
}

// Do issues the call and decodes the unwrapped data payload into out when
// out is non-nil. The returned error always follows a notification.
func (c *Client) Do(ctx context.Context, cl call, out any) error {
	sessionID := notify.SessionIDFromContext(ctx)

	var bodyReader io.Reader
	contentType := "application/json"
	switch {
	case cl.raw != nil:
		bodyReader = cl.raw
		contentType = cl.contentType
	case cl.body != nil:
		encoded, err := json.Marshal(cl.body)
		if err != nil {
			c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
			return domain.NewAppError(domain.CodeInternal, genericFailure, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.prefix+cl.path, bodyReader)
	if err != nil {
		c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
		return domain.NewAppError(domain.CodeInternal, genericFailure, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.Any("error", err),
		)
		c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
		return domain.NewAppError(domain.CodeUpstream, genericFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
		return domain.NewAppError(domain.CodeUpstream, genericFailure, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.WarnContext(ctx, "backend returned malformed envelope",
			slog.String("path", cl.path),
			slog.Int("http_status", resp.StatusCode),
		)
		c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
		return domain.NewAppError(domain.CodeUpstream, genericFailure, err)
	}

	status := env.Status
	if status == 0 {
		status = resp.StatusCode
	}

	if !accepted(status, env) {
		message := env.Message
		if message == "" {
			message = cl.fallback
		}
		if message == "" {
			message = genericFailure
		}
		severity := cl.severity
		if severity == "" {
			severity = notify.SeverityError
		}
		c.notifier.Notify(sessionID, message, severity)
		return domain.NewAppError(domain.CodeUpstream, message, nil)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.notifier.Notify(sessionID, genericFailure, notify.SeverityError)
			return domain.NewAppError(domain.CodeUpstream, genericFailure,
				fmt.Errorf("decode %s payload: %w", cl.path, err))
		}
	}
	return nil
}

// accepted applies the shared success criterion: a 200/201 status, a truthy
// data payload, and — on the endpoints that send it — success set to true.
func accepted(status int, env envelope) bool {
	if status != http.StatusOK && status != http.StatusCreated {
		return false
	}
	if env.Success != nil && !*env.Success {
		return false
	}
	return truthy(env.Data)
}

// truthy mirrors the loose truthiness the admin endpoints were written
// against: null, false, 0, and "" are failures; everything else — including
// empty arrays and objects — is data.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
