// Package circular is the console screen for community circulars:
// announcements with an optional file attachment, published and withdrawn
// but never edited.
package circular

import (
	"context"
	"io"
	"log/slog"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/gateway"
	"github.com/simp-lee/memberbase/internal/listctrl"
	"github.com/simp-lee/memberbase/internal/notify"
)

const screenName = "circulars"

// Attachment is one uploaded file destined for the management API.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// Service wires the circular screen.
type Service struct {
	resource *gateway.Resource[domain.Circular]
	registry *listctrl.Registry
	center   *notify.Center
	audit    domain.AuditLog
	logger   *slog.Logger
	opts     listctrl.Options
}

// NewService creates the circular screen service.
func NewService(client *gateway.Client, registry *listctrl.Registry, center *notify.Center, audit domain.AuditLog, logger *slog.Logger, opts listctrl.Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resource: gateway.NewResource[domain.Circular](client, "circular", "circulars", gateway.Endpoints{
			List:   gateway.EndpointCircularList,
			Create: gateway.EndpointCircularAdd,
			Delete: gateway.EndpointCircularDelete,
		}),
		registry: registry,
		center:   center,
		audit:    audit,
		logger:   logger,
		opts:     opts,
	}
}

// Controller returns the session's circular list controller.
func (s *Service) Controller(sessionID string) *listctrl.Controller[domain.Circular] {
	d := s.registry.Get(sessionID, screenName, func() listctrl.Disposable {
		return listctrl.New(s.resource.List, s.center, s.center, sessionID, s.opts)
	})
	return d.(*listctrl.Controller[domain.Circular])
}

// Publish sends the circular as multipart form data, attachment included.
func (s *Service) Publish(ctx context.Context, sess *domain.Session, title, description string, attachment *Attachment) error {
	ctrl := s.Controller(sess.ID)
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		SuccessMessage: "Circular published successfully",
	}, func(ctx context.Context) error {
		form := gateway.NewForm()
		form.Set("title", title)
		form.Set("description", description)
		if attachment != nil {
			form.File("file", attachment.Filename, attachment.Content)
		}
		_, err := s.resource.CreateMultipart(ctx, form)
		return err
	})
	s.recordAudit(ctx, sess, "create", "", err)
	return err
}

// Withdraw deletes a circular after the admin confirms.
func (s *Service) Withdraw(ctx context.Context, sess *domain.Session, id string) error {
	ctrl := s.Controller(sess.ID)
	ran := false
	err := ctrl.Mutate(ctx, listctrl.MutationOptions{
		ConfirmTitle:   "Withdraw circular?",
		ConfirmMessage: "Members will no longer see this circular. This cannot be undone.",
		SuccessMessage: "Circular withdrawn successfully",
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
		Entity:     "circular",
		Action:     action,
		RecordID:   recordID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit record failed",
			slog.String("entity", "circular"),
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}
