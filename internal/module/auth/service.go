// Package auth exchanges admin credentials for a console session. The
// management API issues the bearer token; the console never sees or checks
// passwords beyond forwarding them.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

// Service defines the console authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	client     *gateway.Client
	sessions   domain.SessionStore
	registry   *listctrl.Registry
	center     *notify.Center
	sessionTTL time.Duration
}

// NewService creates an auth Service.
func NewService(client *gateway.Client, sessions domain.SessionStore, registry *listctrl.Registry, center *notify.Center, sessionTTL time.Duration) Service {
	return &authService{
		client:     client,
		sessions:   sessions,
		registry:   registry,
		center:     center,
		sessionTTL: sessionTTL,
	}
}

// Login forwards the credentials to the management API and, on success,
// stores the returned bearer token under a fresh opaque session ID. Expired
// sessions are swept opportunistically on each login.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "email and password are required", nil)
	}

	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, domain.NewAppError(domain.CodeUpstream, "login response carried no token", nil)
	}

	_ = s.sessions.DeleteExpired(ctx)

	name := result.Name
	adminEmail := result.Email
	if adminEmail == "" {
		adminEmail = email
	}

	sess := &domain.Session{
		ID:         uuid.NewString(),
		AdminEmail: adminEmail,
		AdminName:  name,
		Token:      result.Token,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout deletes the session and tears down everything keyed to it: live
// controllers, queued toasts, and open confirmation prompts.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	s.registry.DropSession(sessionID)
	s.center.DropSession(sessionID)

	err := s.sessions.Delete(ctx, sessionID)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}
