package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/memberbase/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the local store tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Session{}, &domain.AuditEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSession(ttl time.Duration) *domain.Session {
	return &domain.Session{
		ID:         uuid.NewString(),
		AdminEmail: "admin@example.com",
		AdminName:  "Admin",
		Token:      "bearer-token",
		ExpiresAt:  time.Now().Add(ttl),
	}
}

func TestSessionCreateAndGet(t *testing.T) {
	store := NewSessionStore(setupTestDB(t))
	ctx := context.Background()

	s := newSession(time.Hour)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AdminEmail != "admin@example.com" || got.Token != "bearer-token" {
		t.Errorf("got %+v; want stored email and token", got)
	}
}

func TestSessionGet_NotFound(t *testing.T) {
	store := NewSessionStore(setupTestDB(t))

	_, err := store.Get(context.Background(), uuid.NewString())
	if !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionGet_ExpiredIsDeleted(t *testing.T) {
	db := setupTestDB(t)
	store := NewSessionStore(db)
	ctx := context.Background()

	s := newSession(-time.Minute)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Get(ctx, s.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}

	var count int64
	db.Model(&domain.Session{}).Count(&count)
	if count != 0 {
		t.Errorf("expired session still stored, count = %d", count)
	}
}

func TestSessionDelete(t *testing.T) {
	store := NewSessionStore(setupTestDB(t))
	ctx := context.Background()

	s := newSession(time.Hour)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, s.ID); !domain.IsNotFound(err) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	store := NewSessionStore(db)
	ctx := context.Background()

	live := newSession(time.Hour)
	dead := newSession(-time.Hour)
	for _, s := range []*domain.Session{live, dead} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := store.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}

	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("live session should survive, got %v", err)
	}
	var count int64
	db.Model(&domain.Session{}).Count(&count)
	if count != 1 {
		t.Errorf("sessions remaining = %d, want 1", count)
	}
}

func TestAuditRecordAndList(t *testing.T) {
	log := NewAuditLog(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := &domain.AuditEntry{
			AdminEmail: "admin@example.com",
			Entity:     "caste",
			Action:     "create",
			RecordID:   fmt.Sprintf("rec-%d", i),
			Succeeded:  true,
		}
		if err := log.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := log.Record(ctx, &domain.AuditEntry{
		AdminEmail: "admin@example.com",
		Entity:     "poll",
		Action:     "delete",
		Succeeded:  false,
		Detail:     "upstream rejected",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	page, err := log.List(ctx, domain.PageRequest{Page: 1, PageSize: 4, Sort: "id:asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 6 {
		t.Errorf("Total = %d, want 6", page.Total)
	}
	if len(page.Items) != 4 {
		t.Errorf("Items = %d, want 4", len(page.Items))
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}
}

func TestAuditListFilterByEntity(t *testing.T) {
	log := NewAuditLog(setupTestDB(t))
	ctx := context.Background()

	for _, entity := range []string{"caste", "caste", "job"} {
		if err := log.Record(ctx, &domain.AuditEntry{Entity: entity, Action: "update"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	page, err := log.List(ctx, domain.PageRequest{
		Page:     1,
		PageSize: 10,
		Sort:     "id:desc",
		Filter:   map[string]string{"entity": "caste"},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	for _, e := range page.Items {
		if e.Entity != "caste" {
			t.Errorf("filter leaked entity %q", e.Entity)
		}
	}
}
