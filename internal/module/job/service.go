// Package job is the console screen for the community job portal. Postings
// come from members; the console reviews them and takes stale or
// inappropriate ones offline.
package job

import (
	"context"
	"log/slog"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const (
	screenName      = "jobs"
	activeFilterKey = "isActive"
)

// Service wires the job portal screen.
type Service struct {
	resource *gateway.Resource[domain.Job]
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the job screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resource: gateway.NewResource[domain.Job](client, "job", "jobs", gateway.Endpoints{
			List:   gateway.EndpointJobList,
			Toggle: gateway.EndpointJobDeactivate,
		}),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's job list controller.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Job] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.resource.List, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Job])
}

// FilterByActive narrows the list to active ("true") or inactive ("false")
// postings; empty shows all.
func (s *Service) FilterByActive(ctx context.Context, sessionID, isActive string) {
	s.Controller(sessionID).SetFilter(ctx, activeFilterKey, isActive)
}

// SetActive flips a posting's visibility. Taking a posting offline asks for
// confirmation; putting one back does not.
func (s *Service) SetActive(ctx context.Context, sess *domain.Session, id string, active bool) error {
	ctrl := s.Controller(sess.ID)

	opts := listctrl.MutationOptions{SuccessMessage: "Job activated successfully"}
	action := "activate"
	if !active {
		opts = listctrl.MutationOptions{
			ConfirmTitle:   "Deactivate job posting?",
			ConfirmMessage: "The posting disappears from the portal until it is reactivated.",
			SuccessMessage: "Job deactivated successfully",
		}
		action = "deactivate"
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

func (s *Service) recordAudit(ctx context.Context, sess *domain.Session, action, recordID string, opErr error) {
	entry := &domain.AuditEntry{
		AdminEmail: sess.AdminEmail,
		Entity:     "job",
		Action:     action,
		RecordID:   recordID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "job"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
