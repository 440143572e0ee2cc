// Package poll is the console screen for community polls: create, open or
// close, and delete. Tallies are computed by the management API; the console
// shows them as-is.
package poll

import (
	"context"
	"log/slog"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const screenName = "polls"

// Service wires the poll screen.
type Service struct {
	resource *gateway.Resource[domain.Poll]
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the poll screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resource: gateway.NewResource[domain.Poll](client, "poll", "polls", gateway.Endpoints{
			List:   gateway.EndpointPollList,
			Create: gateway.EndpointPollCreate,
			Toggle: gateway.EndpointPollToggle,
			Delete: gateway.EndpointPollDelete,
		}),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's poll list controller.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Poll] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.resource.List, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Poll])
}

// Create opens a new poll. Options are sent as bare texts; the server builds
// the tally structures.
func (s *Service) Create(ctx context.Context, sess *domain.Session, req CreatePollRequest) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Poll created successfully",
	}, func(ctx context.Context) error {
		options := make([]map[string]string, 0, len(req.Options))
		for _, text := range req.Options {
			options = append(options, map[string]string{"text": text})
		}
		_, err := s.resource.Create(ctx, map[string]any{
			"title":       req.Title,
			"description": req.Description,
			"options":     options,
			"expiryDate":  req.ExpiryDate,
		})
		return err
	})
	s.recordAudit(ctx, sess, "create", "", err)
	return err
}

// SetActive opens or closes a poll. Closing asks for confirmation because
// members lose the ballot immediately.
func (s *Service) SetActive(ctx context.Context, sess *domain.Session, id string, active bool) error {
	ctrl := s.Controller(sess.ID)

	opts := listctrl.MutationOptions{SuccessMessage: "Poll reopened successfully"}
	action := "open"
	if !active {
		opts = listctrl.MutationOptions{
			ConfirmTitle:   "Close poll?",
			ConfirmMessage: "Members can no longer vote once the poll closes.",
			SuccessMessage: "Poll closed successfully",
		}
		action = "close"
	}

	ran := false
	err := ctrl.Mutate(ctx, opts, func(ctx context.Context) error {
		ran = true
		return s.resource.SetActive(ctx, id, active)
	})
	if ran {
		s.recordAudit(ctx, sess, action, id, err)
	}
	return err
}

// Delete removes a poll and its votes after the admin confirms.
func (s *Service) Delete(ctx context.Context, sess *domain.Session, id string) error {
	ctrl := s.Controller(sess.ID)
	ran := false
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		ConfirmTitle:   "Delete poll?",
		ConfirmMessage: "The poll and all recorded votes are removed. This cannot be undone.",
		SuccessMessage: "Poll deleted successfully",
	}, func(ctx context.Context) error {
		ran = true
		return s.resource.Delete(ctx, id)
	})
	if ran {
		s.recordAudit(ctx, sess, "delete", id, err)
	}
	return err
}

func (s *Service) recordAudit(ctx context.Context, sess *domain.Session, action, recordID string, opErr error) {
	entry := &domain.AuditEntry{
		AdminEmail: sess.AdminEmail,
		Entity:     "poll",
		Action:     action,
		RecordID:   recordID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "poll"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
