// Package caste is the console screen for community castes: a searchable
// paginated list with add, rename, and delete.
package caste

import (
	"context"
	"log/slog"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const screenName = "castes"

// Service wires the caste screen: its gateway resource, the per-session
// controllers, and audit recording around mutations.
type Service struct {
	resource *gateway.Resource[domain.Caste]
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the caste screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resource: gateway.NewResource[domain.Caste](client, "caste", "castes", gateway.Endpoints{
			List:   gateway.EndpointCasteList,
			Create: gateway.EndpointCasteAdd,
			Update: gateway.EndpointCasteUpdate,
			Delete: gateway.EndpointCasteDelete,
		}),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's caste list controller, creating it on
// first use.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Caste] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.resource.List, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Caste])
}

// Create adds a caste and, on success, toasts once and refetches the list.
func (s *Service) Create(ctx context.Context, sess *domain.Session, name string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Caste added successfully",
	}, func(ctx context.Context) error {
		_, err := s.resource.Create(ctx, map[string]any{"name": name})
		return err
	})
	s.recordAudit(ctx, sess, "create", "", err)
	return err
}

// Update renames a caste.
func (s *Service) Update(ctx context.Context, sess *domain.Session, id, name string) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Caste updated successfully",
	}, func(ctx context.Context) error {
		_, err := s.resource.Update(ctx, id, map[string]any{"name": name})
		return err
	})
	s.recordAudit(ctx, sess, "update", id, err)
	return err
}

// Delete removes a caste after the admin confirms.
func (s *Service) Delete(ctx context.Context, sess *domain.Session, id string) error {
	ctrl := s.Controller(sess.ID)
	ran := false
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		ConfirmTitle:   "Delete caste?",
		ConfirmMessage: "Members assigned to this caste keep their records, but the caste disappears from every picker.",
		SuccessMessage: "Caste deleted successfully",
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
		Entity:     "caste",
		Action:     action,
		RecordID:   recordID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "caste"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
