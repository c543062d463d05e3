package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

func TestGetIdempotency_BlankScope_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", now)
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for blank scope, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:        "expired",
		UserID:    "u1",
		Scope:     "contact",
		Key:       "k1",
		Status:    200,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "u1", "contact", "k1", now)
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	rec2, err2 := GetIdempotency(context.Background(), db, "u1", "contact", "missing", now)
	if rec2 != nil || !errors.Is(err2, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestCreateThenGetIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	created, err := CreateIdempotency(ctx, db, "u1", "delete", "k1", 200, `{"ok":true}`, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if created.ID == "" || !created.ExpiresAt.After(created.CreatedAt) {
		t.Fatalf("unexpected record: %+v", created)
	}

	got, err := GetIdempotency(ctx, db, "u1", "delete", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.Status != 200 || got.Body != `{"ok":true}` {
		t.Fatalf("unexpected replay payload: status=%d body=%q", got.Status, got.Body)
	}

	// Another scope with the same key is a different record.
	if _, err := GetIdempotency(ctx, db, "u1", "contact", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across scopes, got %v", err)
	}
}

func TestCreateIdempotency_Duplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "contact", "dup", 201, "{}", time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := CreateIdempotency(ctx, db, "u1", "contact", "dup", 201, "{}", time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Different user may reuse the key.
	if _, err := CreateIdempotency(ctx, db, "u2", "contact", "dup", 201, "{}", time.Hour); err != nil {
		t.Fatalf("other user create: %v", err)
	}
}

func TestCreateIdempotency_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, err := CreateIdempotency(context.Background(), db, "u1", "contact", "k", 200, "", time.Hour)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected raw db error, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := CreateIdempotency(ctx, db, "u1", "contact", "live", 200, "", time.Hour); err != nil {
		t.Fatalf("seed live: %v", err)
	}
	old := &domain.Idempotency{ID: "old", UserID: "u1", Scope: "contact", Key: "old", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Minute)}
	if err := db.Create(old).Error; err != nil {
		t.Fatalf("seed old: %v", err)
	}

	n, err := PurgeExpiredIdempotency(ctx, db, now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
}
