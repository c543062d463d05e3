// Package services – AnalyticsService
//
// This file implements AnalyticsService, which turns the held submission list
// into the analytics view: a zero-filled daily series with a trailing 7-day
// average over the look-back range, and a top-N ranking of email domains over
// all submissions. Look-back and ranking size are restricted to configured
// choices. The same report feeds the XLSX and PDF exports.
package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/contact-dashboard/internal/analytics"
	"github.com/tbourn/contact-dashboard/internal/dates"
	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/export"
	"github.com/tbourn/contact-dashboard/internal/store"
)

const (
	// AnalyticsTitle heads the analytics PDF.
	AnalyticsTitle = "Submissions Analytics"
	// AnalyticsFile is the export filename without extension.
	AnalyticsFile = "Analytics"
)

var (
	// DefaultDaysChoices are the selectable look-back ranges.
	DefaultDaysChoices = []int{7, 14, 30, 60, 90}
	// DefaultTopChoices are the selectable domain ranking sizes.
	DefaultTopChoices = []int{5, 7, 10, 15}
)

// AnalyticsQuery selects the report window. Zero values pick the defaults.
type AnalyticsQuery struct {
	DaysBack int
	TopN     int
	Refresh  bool
}

// AnalyticsReport is the computed analytics view.
type AnalyticsReport struct {
	Summary     analytics.Summary       `json:"summary"`
	Daily       []analytics.Bucket      `json:"daily"`
	Domains     []analytics.DomainCount `json:"domains"`
	TopN        int                     `json:"top"`
	GeneratedAt time.Time               `json:"generated_at"`
	Stale       bool                    `json:"stale,omitempty"`
}

// AnalyticsService computes analytics reports from the submission store.
type AnalyticsService struct {
	Store      *store.Store
	Normalizer dates.Normalizer
	Clock      clockwork.Clock
	Location   *time.Location

	DefaultDays int
	DefaultTop  int
	DaysChoices []int
	TopChoices  []int
}

// NewAnalyticsService returns a service with the default choices, a real
// clock, and calendar days in loc.
func NewAnalyticsService(st *store.Store, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{
		Store:       st,
		Normalizer:  dates.NewNormalizer(loc),
		Clock:       clockwork.NewRealClock(),
		Location:    loc,
		DefaultDays: analytics.DefaultDaysBack,
		DefaultTop:  analytics.DefaultTopN,
		DaysChoices: DefaultDaysChoices,
		TopChoices:  DefaultTopChoices,
	}
}

// Resolve applies defaults to q and validates it against the configured
// choices.
func (s *AnalyticsService) Resolve(q AnalyticsQuery) (AnalyticsQuery, error) {
	if q.DaysBack == 0 {
		q.DaysBack = s.DefaultDays
	}
	if q.TopN == 0 {
		q.TopN = s.DefaultTop
	}
	if !allowed(q.DaysBack, s.DaysChoices) {
		return q, fmt.Errorf("%w: %d", ErrInvalidRange, q.DaysBack)
	}
	if !allowed(q.TopN, s.TopChoices) {
		return q, fmt.Errorf("%w: %d", ErrInvalidTopN, q.TopN)
	}
	return q, nil
}

// Report computes the analytics view for q.
func (s *AnalyticsService) Report(ctx context.Context, q AnalyticsQuery) (*AnalyticsReport, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Report",
		trace.WithAttributes(
			attribute.Int("days", q.DaysBack),
			attribute.Int("top", q.TopN),
		),
	)
	defer span.End()

	q, err := s.Resolve(q)
	if err != nil {
		return nil, err
	}
	subs, stale, err := loadSubmissions(ctx, s.Store, q.Refresh)
	if err != nil {
		return nil, err
	}

	records := domain.ProjectAll(subs, s.Normalizer)
	now := s.Clock.Now().In(s.Location)
	daily := analytics.Daily(records, q.DaysBack, now, s.Location)
	doms := analytics.Domains(records, q.TopN)

	return &AnalyticsReport{
		Summary:     analytics.Summarize(daily, doms, q.DaysBack),
		Daily:       daily,
		Domains:     doms,
		TopN:        q.TopN,
		GeneratedAt: now,
		Stale:       stale,
	}, nil
}

// Sheets returns the XLSX sheets for r: Daily and Domains.
func (r *AnalyticsReport) Sheets() []export.Sheet {
	daily := export.Sheet{
		Name:    "Daily",
		Columns: []string{"Date", "Submissions", "7-day Avg"},
		Rows:    make([]map[string]any, len(r.Daily)),
	}
	for i, b := range r.Daily {
		daily.Rows[i] = map[string]any{
			"Date":        b.Label,
			"Submissions": b.Count,
			"7-day Avg":   b.Avg7,
		}
	}
	doms := export.Sheet{
		Name:    "Domains",
		Columns: []string{"Domain", "Submissions"},
		Rows:    make([]map[string]any, len(r.Domains)),
	}
	for i, d := range r.Domains {
		doms.Rows[i] = map[string]any{
			"Domain":      d.Domain,
			"Submissions": d.Count,
		}
	}
	return []export.Sheet{daily, doms}
}

// PDFReport returns the chart report for r.
func (r *AnalyticsReport) PDFReport() export.Report {
	labels := make([]string, len(r.Daily))
	counts := make([]float64, len(r.Daily))
	avg := make([]float64, len(r.Daily))
	for i, b := range r.Daily {
		labels[i] = b.Label
		counts[i] = float64(b.Count)
		avg[i] = b.Avg7
	}
	domLabels := make([]string, len(r.Domains))
	domCounts := make([]float64, len(r.Domains))
	for i, d := range r.Domains {
		domLabels[i] = d.Domain
		domCounts[i] = float64(d.Count)
	}
	doms := r.Sheets()[1]

	return export.Report{
		Title:        AnalyticsTitle,
		SummaryLines: append(r.Summary.Lines(), export.GeneratedLine(r.GeneratedAt)),
		Tables: []export.Table{
			{Title: fmt.Sprintf("Top %d email domains", r.TopN), Columns: doms.Columns, Rows: doms.Rows},
		},
		Charts: []export.Chart{
			{
				Caption: "Daily submissions with 7-day rolling average",
				Kind:    export.Columns,
				Labels:  labels,
				Bars:    counts,
				Line:    avg,
			},
			{
				Caption: fmt.Sprintf("Top %d email domains", r.TopN),
				Kind:    export.HorizontalBars,
				Labels:  domLabels,
				Bars:    domCounts,
			},
		},
	}
}

// Export writes the report for q to w in format f (XLSX or PDF).
func (s *AnalyticsService) Export(ctx context.Context, q AnalyticsQuery, f export.Format, w io.Writer) error {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Export",
		trace.WithAttributes(attribute.String("format", string(f))),
	)
	defer span.End()

	if f != export.XLSX && f != export.PDF {
		return ErrUnsupportedFormat
	}
	r, err := s.Report(ctx, q)
	if err != nil {
		return err
	}
	if f == export.XLSX {
		return export.WriteXLSX(w, r.Sheets()...)
	}
	return export.WriteReportPDF(w, r.PDFReport())
}

// allowed reports whether v is among choices; an empty list accepts any
// positive value.
func allowed(v int, choices []int) bool {
	if len(choices) == 0 {
		return v > 0
	}
	return slices.Contains(choices, v)
}
