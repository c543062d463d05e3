// Package services – SubmissionService
//
// This file implements SubmissionService, which serves the submissions
// dashboard: it loads the remote list through the local store, projects it,
// runs the query engine, remembers each viewer's query and page, paginates,
// and shapes rows for display. Deletes are delegated to the mutation
// coordinator, and exports run over the full processed list rather than the
// visible page.
//
// Observability: public methods are OpenTelemetry-instrumented; a failed
// refresh is logged and the previous list is served.
package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/contact-dashboard/internal/dashboard"
	"github.com/tbourn/contact-dashboard/internal/dates"
	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/search"
	"github.com/tbourn/contact-dashboard/internal/store"
	"github.com/tbourn/contact-dashboard/internal/utils"
)

const (
	// DefaultPageSize is the fixed number of rows per dashboard page.
	DefaultPageSize = 10

	// DisplayDateLayout renders submission dates (MM/dd/yyyy).
	DisplayDateLayout = "01/02/2006"

	// DashboardTitle names the dashboard export and its only sheet.
	DashboardTitle = "Submissions Dashboard"
	// DashboardFile is the export filename without extension.
	DashboardFile = "Submissions_Dashboard"
)

// DashboardColumns are the exported columns, in order.
var DashboardColumns = []string{"Name", "Email", "Date"}

// Row is one dashboard line as shown to the operator.
type Row struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Date is MM/DD/YYYY, or "N/A" when the raw value could not be parsed.
	Date string `json:"date"`
	// When is a relative time such as "3 days ago", empty when unparseable.
	When string `json:"when"`
}

// ListQuery carries one dashboard request.
type ListQuery struct {
	Term      string
	TodayOnly bool
	Sort      search.SortKey
	// Page is the requested page; 0 keeps the viewer's remembered page.
	Page int
	// Refresh forces a refetch from the webhook.
	Refresh bool
}

// State returns the normalized query state of q.
func (q ListQuery) State() search.State {
	return search.State{Term: q.Term, TodayOnly: q.TodayOnly, Sort: q.Sort}.Normalized()
}

// ListResult is a rendered dashboard page.
type ListResult struct {
	State    search.State    `json:"query"`
	Page     utils.Page[Row] `json:"pagination"`
	Notice   string          `json:"notice,omitempty"`
	InFlight []string        `json:"in_flight"`
	// Stale is set when the latest refresh failed and the previous list was
	// served instead.
	Stale bool `json:"stale,omitempty"`
}

// SubmissionService owns the dashboard read path and the delete entry point.
type SubmissionService struct {
	Store      *store.Store
	Engine     *search.Engine
	Views      *dashboard.Views
	Normalizer dates.Normalizer
	Deletes    *mutation.Coordinator

	PageSize int
	Window   int
}

// NewSubmissionService wires a SubmissionService with default paging.
func NewSubmissionService(st *store.Store, eng *search.Engine, views *dashboard.Views, del *mutation.Coordinator) *SubmissionService {
	return &SubmissionService{
		Store:      st,
		Engine:     eng,
		Views:      views,
		Normalizer: dates.NewNormalizer(eng.Location()),
		Deletes:    del,
		PageSize:   DefaultPageSize,
		Window:     utils.DefaultWindow,
	}
}

// List renders the page viewer should see for q. A query change resets the
// viewer to page 1; an out-of-range page is clamped.
func (s *SubmissionService) List(ctx context.Context, viewer string, q ListQuery) (*ListResult, error) {
	tr := otel.Tracer("services/SubmissionService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("viewer", viewer),
			attribute.String("sort", string(q.Sort)),
			attribute.Bool("today", q.TodayOnly),
			attribute.Int("page", q.Page),
		),
	)
	defer span.End()

	st := q.State()
	processed, stale, err := s.process(ctx, st, q.Refresh)
	if err != nil {
		return nil, err
	}

	view := s.Views.Update(viewer, st, q.Page)
	pg := utils.PaginateWindow(processed, s.pageSize(), view.Page, s.window())
	if pg.Page != view.Page {
		s.Views.SetPage(viewer, pg.Page)
	}

	now, loc := s.Engine.Now(), s.Engine.Location()
	rows := make([]Row, len(pg.Items))
	for i, r := range pg.Items {
		rows[i] = toRow(r, now, loc)
	}

	res := &ListResult{
		State: st,
		Page: utils.Page[Row]{
			Items:      rows,
			Page:       pg.Page,
			PageSize:   pg.PageSize,
			Total:      pg.Total,
			TotalPages: pg.TotalPages,
			HasPrev:    pg.HasPrev,
			HasNext:    pg.HasNext,
			Window:     pg.Window,
		},
		InFlight: []string{},
		Stale:    stale,
	}
	if s.Deletes != nil {
		res.Notice = s.Deletes.Notice()
		res.InFlight = s.Deletes.InFlight()
	}
	span.SetAttributes(attribute.Int("total", pg.Total))
	return res, nil
}

// Delete runs an optimistic delete for id on behalf of actor. confirmed
// answers the confirmation prompt.
func (s *SubmissionService) Delete(ctx context.Context, actor, id string, confirmed bool) (mutation.Intent, error) {
	tr := otel.Tracer("services/SubmissionService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("submission.id", id),
			attribute.String("user.id", actor),
		),
	)
	defer span.End()

	confirm := mutation.Declined
	if confirmed {
		confirm = mutation.Confirmed
	}
	in, err := s.Deletes.Delete(mutation.WithActor(ctx, actor), id, confirm)
	span.SetAttributes(attribute.String("delete.state", in.State.String()))
	if err != nil {
		span.RecordError(err)
	}
	return in, err
}

// ExportTable builds the export table for the full processed list under q
// (no pagination).
func (s *SubmissionService) ExportTable(ctx context.Context, q ListQuery) (export.Table, error) {
	processed, _, err := s.process(ctx, q.State(), q.Refresh)
	if err != nil {
		return export.Table{}, err
	}
	rows := make([]map[string]any, len(processed))
	for i, r := range processed {
		date := ""
		if r.Date.Valid {
			date = r.Date.Time.In(s.Engine.Location()).Format(DisplayDateLayout)
		}
		rows[i] = map[string]any{
			"Name":  r.Source.Name,
			"Email": r.Source.Email,
			"Date":  date,
		}
	}
	return export.Table{
		Title:   DashboardTitle,
		Columns: DashboardColumns,
		Rows:    rows,
		SummaryLines: []string{
			fmt.Sprintf("Rows exported: %d", len(rows)),
			export.GeneratedLine(s.Engine.Now()),
		},
	}, nil
}

// Export writes the processed list under q to w in format f.
func (s *SubmissionService) Export(ctx context.Context, q ListQuery, f export.Format, w io.Writer) error {
	tr := otel.Tracer("services/SubmissionService")
	ctx, span := tr.Start(ctx, "Export",
		trace.WithAttributes(attribute.String("format", string(f))),
	)
	defer span.End()

	t, err := s.ExportTable(ctx, q)
	if err != nil {
		return err
	}
	switch f {
	case export.XLSX:
		return export.WriteXLSX(w, t.Sheet(DashboardTitle))
	case export.CSV:
		return export.WriteCSV(w, t)
	case export.PDF:
		return export.WriteTablePDF(w, t)
	default:
		return ErrUnsupportedFormat
	}
}

// process loads (or refreshes) the list and runs the query engine over it.
func (s *SubmissionService) process(ctx context.Context, st search.State, refresh bool) ([]domain.Record, bool, error) {
	subs, stale, err := loadSubmissions(ctx, s.Store, refresh)
	if err != nil {
		return nil, false, err
	}
	return s.Engine.Apply(domain.ProjectAll(subs, s.Normalizer), st), stale, nil
}

func (s *SubmissionService) pageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

func (s *SubmissionService) window() int {
	if s.Window <= 0 {
		return utils.DefaultWindow
	}
	return s.Window
}

// loadSubmissions returns the held list, fetching it when needed. A failed
// fetch is logged; the previous list is served as stale, or ErrUnavailable is
// returned if nothing was ever loaded.
func loadSubmissions(ctx context.Context, st *store.Store, refresh bool) ([]domain.Submission, bool, error) {
	var (
		subs []domain.Submission
		err  error
	)
	if refresh {
		subs, err = st.Refresh(ctx)
	} else {
		subs, err = st.Load(ctx)
	}
	if err == nil {
		return subs, false, nil
	}
	log.Warn().Err(err).Bool("refresh", refresh).Msg("submissions fetch failed")
	if !st.Loaded() {
		return nil, false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return subs, true, nil
}

func toRow(r domain.Record, now time.Time, loc *time.Location) Row {
	row := Row{
		ID:    r.Source.ID,
		Name:  r.Source.Name,
		Email: r.Source.Email,
		Date:  "N/A",
	}
	if r.Date.Valid {
		row.Date = r.Date.Time.In(loc).Format(DisplayDateLayout)
		row.When = humanize.RelTime(r.Date.Time, now, "ago", "from now")
	}
	return row
}
