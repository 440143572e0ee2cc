// Package subcaste is the console screen for subcastes: like the caste
// screen, plus a parent-caste filter.
package subcaste

import (
	"context"
	"log/slog"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const (
	screenName     = "subcastes"
	casteFilterKey = "casteId"
)

// Service wires the subcaste screen.
type Service struct {
	resource *gateway.Resource[domain.Subcaste]
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the subcaste screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resource: gateway.NewResource[domain.Subcaste](client, "subcaste", "subcastes", gateway.Endpoints{
			List:   gateway.EndpointSubcasteList,
			Create: gateway.EndpointSubcasteAdd,
			Update: gateway.EndpointSubcasteUpdate,
			Delete: gateway.EndpointSubcasteDelete,
		}),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's subcaste list controller.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Subcaste] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.resource.List, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Subcaste])
}

// FilterByCaste narrows the list to one parent caste and refetches from
// page 1. Empty casteID clears the filter.
func (s *Service) FilterByCaste(ctx context.Context, sessionID, casteID string) {
	s.Controller(sessionID).SetFilter(ctx, casteFilterKey, casteID)
}

// Create adds a subcaste under the given caste.
func (s *Service) Create(ctx context.Context, sess *domain.Session, name, casteID string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Subcaste added successfully",
	}, func(ctx context.Context) error {
		_, err := s.resource.Create(ctx, map[string]any{"name": name, "casteId": casteID})
		return err
	})
	s.recordAudit(ctx, sess, "create", "", err)
	return err
}

// Update edits a subcaste's name or parent.
func (s *Service) Update(ctx context.Context, sess *domain.Session, id, name, casteID string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Subcaste updated successfully",
	}, func(ctx context.Context) error {
		_, err := s.resource.Update(ctx, id, map[string]any{"name": name, "casteId": casteID})
		return err
	})
	s.recordAudit(ctx, sess, "update", id, err)
	return err
}

// Delete removes a subcaste after the admin confirms.
func (s *Service) Delete(ctx context.Context, sess *domain.Session, id string) error {
	ctrl := s.Controller(sess.ID)
	ran := false
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		ConfirmTitle:   "Delete subcaste?",
		ConfirmMessage: "The subcaste disappears from every picker. This cannot be undone.",
		SuccessMessage: "Subcaste deleted successfully",
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
		Entity:     "subcaste",
		Action:     action,
		RecordID:   recordID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "subcaste"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
