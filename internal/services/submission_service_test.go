package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/search"
)

// twelve submissions: s01..s11 are 1..11 hours old, s12 has an unparseable date.
func twelve() []domain.Submission {
	out := make([]domain.Submission, 0, 12)
	for i := 1; i <= 11; i++ {
		out = append(out, sub(fmt.Sprintf("s%02d", i), fmt.Sprintf("User %02d", i), fmt.Sprintf("u%02d@acme.com", i), hoursAgo(i)))
	}
	return append(out, sub("s12", "Nobody", "n@globex.com", "someday"))
}

func TestSubmissionList_PaginatesAndShapesRows(t *testing.T) {
	fx := newFixture(t, twelve())
	ctx := context.Background()

	res, err := fx.svc.List(ctx, "v1", ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Page.Total != 12 || res.Page.TotalPages != 2 || len(res.Page.Items) != 10 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Page.Total, res.Page.TotalPages, len(res.Page.Items))
	}
	if res.State.Sort != search.DefaultSort {
		t.Fatalf("expected default sort, got %q", res.State.Sort)
	}
	first := res.Page.Items[0]
	if first.ID != "s01" || first.Date != "03/10/2025" || first.When != "1 hour ago" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if res.Page.HasPrev || !res.Page.HasNext {
		t.Fatalf("unexpected prev/next: %+v", res.Page)
	}
	if res.InFlight == nil || len(res.InFlight) != 0 {
		t.Fatalf("expected empty in-flight list, got %v", res.InFlight)
	}

	res, err = fx.svc.List(ctx, "v1", ListQuery{Page: 2})
	if err != nil {
		t.Fatalf("List p2: %v", err)
	}
	last := res.Page.Items[len(res.Page.Items)-1]
	if last.ID != "s12" || last.Date != "N/A" || last.When != "" {
		t.Fatalf("unparseable row should sort last with N/A date, got %+v", last)
	}
}

func TestSubmissionList_RemembersPageAndResetsOnQueryChange(t *testing.T) {
	fx := newFixture(t, twelve())
	ctx := context.Background()

	if _, err := fx.svc.List(ctx, "v1", ListQuery{Page: 2}); err != nil {
		t.Fatalf("List: %v", err)
	}
	// No page requested: the remembered page is shown.
	res, err := fx.svc.List(ctx, "v1", ListQuery{})
	if err != nil || res.Page.Page != 2 {
		t.Fatalf("expected remembered page 2, got %d (err=%v)", res.Page.Page, err)
	}
	// Query change: back to page 1 even though page 2 was requested.
	res, err = fx.svc.List(ctx, "v1", ListQuery{Term: "user", Page: 2})
	if err != nil || res.Page.Page != 1 {
		t.Fatalf("expected reset to page 1, got %d (err=%v)", res.Page.Page, err)
	}
	// Another viewer is independent.
	res, err = fx.svc.List(ctx, "v2", ListQuery{})
	if err != nil || res.Page.Page != 1 {
		t.Fatalf("expected page 1 for new viewer, got %d (err=%v)", res.Page.Page, err)
	}
}

func TestSubmissionList_ClampsOutOfRangePage(t *testing.T) {
	fx := newFixture(t, twelve())
	res, err := fx.svc.List(context.Background(), "v1", ListQuery{Page: 99})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Page.Page != 2 || len(res.Page.Items) != 2 {
		t.Fatalf("expected clamped page 2 with 2 items, got page=%d items=%d", res.Page.Page, len(res.Page.Items))
	}
	if v, ok := fx.svc.Views.Get("v1"); !ok || v.Page != 2 {
		t.Fatalf("expected clamped page remembered, got %+v", v)
	}
}

func TestSubmissionList_SearchAndToday(t *testing.T) {
	fx := newFixture(t, []domain.Submission{
		sub("a", "Alice", "alice@acme.com", hoursAgo(2)),
		sub("b", "Bob", "bob@globex.com", "03/01/2025"),
	})
	res, err := fx.svc.List(context.Background(), "v1", ListQuery{Term: "GLOBEX"})
	if err != nil || res.Page.Total != 1 || res.Page.Items[0].ID != "b" {
		t.Fatalf("search: unexpected result %+v (err=%v)", res, err)
	}
	res, err = fx.svc.List(context.Background(), "v1", ListQuery{TodayOnly: true})
	if err != nil || res.Page.Total != 1 || res.Page.Items[0].ID != "a" {
		t.Fatalf("today: unexpected result %+v (err=%v)", res, err)
	}
}

func TestSubmissionList_FetchFailures(t *testing.T) {
	fx := newFixture(t, nil)
	fx.fetcher.set(nil, errors.New("boom"))

	_, err := fx.svc.List(context.Background(), "v1", ListQuery{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable before first load, got %v", err)
	}

	fx.fetcher.set(twelve(), nil)
	if _, err := fx.svc.List(context.Background(), "v1", ListQuery{Refresh: true}); err != nil {
		t.Fatalf("List: %v", err)
	}

	fx.fetcher.set(nil, errors.New("boom again"))
	res, err := fx.svc.List(context.Background(), "v1", ListQuery{Refresh: true})
	if err != nil {
		t.Fatalf("expected stale list, got %v", err)
	}
	if !res.Stale || res.Page.Total != 12 {
		t.Fatalf("expected stale=true total=12, got stale=%v total=%d", res.Stale, res.Page.Total)
	}
}

func TestSubmissionDelete_CommitsAndShowsNotice(t *testing.T) {
	fx := newFixture(t, twelve())
	ctx := context.Background()
	if _, err := fx.svc.List(ctx, "v1", ListQuery{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	in, err := fx.svc.Delete(ctx, "admin-1", "s01", true)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if in.State != mutation.Committed || in.Notice != mutation.MsgDeleted {
		t.Fatalf("unexpected intent: %+v", in)
	}

	res, err := fx.svc.List(ctx, "v1", ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Page.Total != 11 || res.Page.Items[0].ID != "s02" {
		t.Fatalf("expected s01 gone, got total=%d first=%s", res.Page.Total, res.Page.Items[0].ID)
	}
	if res.Notice != mutation.MsgDeleted {
		t.Fatalf("expected success notice, got %q", res.Notice)
	}
}

func TestSubmissionDelete_NotConfirmedLeavesListAlone(t *testing.T) {
	fx := newFixture(t, twelve())
	ctx := context.Background()
	if _, err := fx.svc.List(ctx, "v1", ListQuery{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	in, err := fx.svc.Delete(ctx, "admin-1", "s01", false)
	if err != nil || in.State != mutation.Idle {
		t.Fatalf("expected idle intent without error, got %+v (err=%v)", in, err)
	}
	if fx.remote.calls.Load() != 0 {
		t.Fatalf("remote must not be called without confirmation")
	}
	if n := len(fx.store.Snapshot()); n != 12 {
		t.Fatalf("expected 12 submissions, got %d", n)
	}
}

func TestSubmissionDelete_FailureRollsBack(t *testing.T) {
	fx := newFixture(t, twelve())
	ctx := context.Background()
	if _, err := fx.svc.List(ctx, "v1", ListQuery{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	fx.remote.err = errors.New("nope")

	in, err := fx.svc.Delete(ctx, "admin-1", "s03", true)
	var fe *mutation.FailureError
	if !errors.As(err, &fe) || in.State != mutation.RolledBack {
		t.Fatalf("expected rollback failure, got %+v (err=%v)", in, err)
	}
	if got := fx.store.Snapshot()[2].ID; got != "s03" {
		t.Fatalf("expected s03 restored in place, got %s", got)
	}
}

func TestSubmissionExport_UsesFullProcessedList(t *testing.T) {
	fx := newFixture(t, twelve())
	tbl, err := fx.svc.ExportTable(context.Background(), ListQuery{Sort: search.SortDateDesc})
	if err != nil {
		t.Fatalf("ExportTable: %v", err)
	}
	if len(tbl.Rows) != 12 {
		t.Fatalf("expected all 12 rows, got %d", len(tbl.Rows))
	}
	if tbl.Rows[0]["Date"] != "03/10/2025" || tbl.Rows[11]["Date"] != "" {
		t.Fatalf("unexpected dates: first=%v last=%v", tbl.Rows[0]["Date"], tbl.Rows[11]["Date"])
	}
	if tbl.SummaryLines[0] != "Rows exported: 12" || tbl.SummaryLines[1] != "Generated on: 03/10/2025 12:00" {
		t.Fatalf("unexpected summary lines: %v", tbl.SummaryLines)
	}

	var buf bytes.Buffer
	if err := fx.svc.Export(context.Background(), ListQuery{Term: "globex"}, export.CSV, &buf); err != nil {
		t.Fatalf("Export csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || strings.TrimSpace(lines[0]) != "Name,Email,Date" {
		t.Fatalf("unexpected csv: %q", buf.String())
	}

	if err := fx.svc.Export(context.Background(), ListQuery{}, export.Format("doc"), &buf); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
