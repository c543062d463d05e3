package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

func TestCreateDeleteAudit_AssignsIDAndCreatedAt(t *testing.T) {
	db := newTestDB(t, &domain.DeleteAudit{})
	now := time.Now().UTC()

	a := &domain.DeleteAudit{
		SubmissionID: "s1",
		Actor:        "u1",
		Outcome:      domain.OutcomeCommitted,
		RequestedAt:  now,
		ResolvedAt:   now,
	}
	if err := CreateDeleteAudit(context.Background(), db, a); err != nil {
		t.Fatalf("CreateDeleteAudit: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("expected generated ID and CreatedAt, got %+v", a)
	}
}

func TestCreateDeleteAudit_RejectsUnknownOutcome(t *testing.T) {
	db := newTestDB(t, &domain.DeleteAudit{})
	now := time.Now().UTC()

	err := CreateDeleteAudit(context.Background(), db, &domain.DeleteAudit{
		SubmissionID: "s1",
		Outcome:      "exploded",
		RequestedAt:  now,
		ResolvedAt:   now,
	})
	if err == nil {
		t.Fatalf("expected check constraint violation")
	}
}

func TestListDeleteAudit_OrderFilterAndLimit(t *testing.T) {
	db := newTestDB(t, &domain.DeleteAudit{})
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []struct {
		sub     string
		outcome string
		at      time.Time
	}{
		{"s1", domain.OutcomeRolledBack, base},
		{"s2", domain.OutcomeCommitted, base.Add(time.Minute)},
		{"s1", domain.OutcomeCommitted, base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := CreateDeleteAudit(ctx, db, &domain.DeleteAudit{
			SubmissionID: e.sub, Outcome: e.outcome, RequestedAt: e.at, ResolvedAt: e.at,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := ListDeleteAudit(ctx, db, "", 0)
	if err != nil {
		t.Fatalf("ListDeleteAudit: %v", err)
	}
	if len(all) != 3 || all[0].SubmissionID != "s1" || all[0].Outcome != domain.OutcomeCommitted {
		t.Fatalf("expected newest first, got %+v", all)
	}

	only, err := ListDeleteAudit(ctx, db, "s1", 10)
	if err != nil {
		t.Fatalf("ListDeleteAudit filter: %v", err)
	}
	if len(only) != 2 {
		t.Fatalf("expected 2 rows for s1, got %d", len(only))
	}

	one, err := ListDeleteAudit(ctx, db, "", 1)
	if err != nil || len(one) != 1 {
		t.Fatalf("expected single row, got %d (err=%v)", len(one), err)
	}

	counts, err := CountDeleteOutcomes(ctx, db)
	if err != nil {
		t.Fatalf("CountDeleteOutcomes: %v", err)
	}
	if counts[domain.OutcomeCommitted] != 2 || counts[domain.OutcomeRolledBack] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
