package domain

import (
	"context"
	"time"
)

// Session is a console login session persisted in the local store. It binds
// the browser's opaque session cookie to the bearer token the management API
// issued at login. The token exists nowhere else; deleting the session is a
// wholesale logout.
type Session struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	AdminEmail string    `gorm:"size:255;index" json:"admin_email"`
	AdminName  string    `gorm:"size:100" json:"admin_name"`
	Token      string    `gorm:"size:2048" json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore defines persistence for console sessions.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}

// AuditEntry records one mutation performed through the console: who did it,
// against which entity and record, and whether the management API accepted it.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminEmail string    `gorm:"size:255;index" json:"admin_email"`
	Entity     string    `gorm:"size:64;index" json:"entity"`
	Action     string    `gorm:"size:32" json:"action"`
	RecordID   string    `gorm:"size:64" json:"record_id"`
	Succeeded  bool      `json:"succeeded"`
	Detail     string    `gorm:"size:512" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditPage is one page of audit entries from the local store.
type AuditPage struct {
	Items      []AuditEntry `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// PageRequest holds pagination, sorting, and filtering parameters for local
// store queries.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
	Filter   map[string]string
}

// AuditLog defines recording and querying of console audit entries.
type AuditLog interface {
	Record(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, req PageRequest) (*AuditPage, error)
}
