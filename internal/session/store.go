// Package session persists console login sessions and the audit trail in the
// local store. Everything else the console shows lives behind the management
// API; these two tables are the only local state.
package session

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/pkg"
)

// Allowed fields for sorting and filtering audit log queries.
var (
	allowedSortFields   = []string{"id", "admin_email", "entity", "action", "created_at"}
	allowedFilterFields = []string{"admin_email", "entity", "action", "record_id"}
)

// sessionStore implements domain.SessionStore using GORM.
type sessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a SessionStore backed by the given GORM database.
func NewSessionStore(db *gorm.DB) domain.SessionStore {
	return &sessionStore{db: db}
}

// Create inserts a new session.
func (s *sessionStore) Create(ctx context.Context, session *domain.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Get retrieves a session by its opaque ID. Expired sessions are deleted on
// sight and reported as not found.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	if session.Expired() {
		_ = s.Delete(ctx, id)
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// Delete removes a session by ID.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&domain.Session{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteExpired removes every session past its expiry.
func (s *sessionStore) DeleteExpired(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("expires_at < CURRENT_TIMESTAMP").
		Delete(&domain.Session{}).Error
	if err != nil {
		return mapError(err)
	}
	return nil
}

// auditLog implements domain.AuditLog using GORM.
type auditLog struct {
	db *gorm.DB
}

// NewAuditLog creates an AuditLog backed by the given GORM database.
func NewAuditLog(db *gorm.DB) domain.AuditLog {
	return &auditLog{db: db}
}

// Record appends one audit entry.
func (a *auditLog) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// List returns a paginated, sorted, and filtered page of audit entries. The
// count and the page read run in one transaction so they agree on the total.
func (a *auditLog) List(ctx context.Context, req domain.PageRequest) (*domain.AuditPage, error) {
	var total int64
	var entries []domain.AuditEntry

	err := pkg.WithTx(a.db.WithContext(ctx), func(tx *gorm.DB) error {
		base := tx.Model(&domain.AuditEntry{}).
			Scopes(pkg.Filter(req, allowedFilterFields))

		if err := base.Count(&total).Error; err != nil {
			return err
		}

		return base.Scopes(
			pkg.Paginate(req),
			pkg.Sort(req, allowedSortFields),
		).Find(&entries).Error
	})
	if err != nil {
		return nil, mapError(err)
	}

	return pkg.NewAuditPage(entries, total, req), nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
