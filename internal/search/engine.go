// Package search implements the dashboard query engine: free-text search,
// the "today only" filter and the four sort orders, applied to projected
// submission records.
//
// Apply is a pure function of its inputs and the engine's clock:
//
//   - search runs first, then the today filter, then the sort
//   - the input slice is never mutated; a new slice is returned
//   - sorting is stable, so ties keep their prior relative order
//   - unparseable dates sort as the earliest instant
//   - name sorts are locale-aware and case-insensitive (x/text/collate)
//
// An Engine is immutable after construction and safe for concurrent use.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tbourn/contact-dashboard/internal/dates"
	"github.com/tbourn/contact-dashboard/internal/domain"
)

// SortKey selects one of the dashboard sort orders.
type SortKey string

const (
	SortDateDesc SortKey = "date_desc"
	SortDateAsc  SortKey = "date_asc"
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
)

// DefaultSort is used when a caller does not pick an order.
const DefaultSort = SortDateDesc

// SortKeys lists the accepted keys in display order.
func SortKeys() []SortKey {
	return []SortKey{SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc}
}

// ParseSortKey validates s. An empty string yields DefaultSort.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSort, nil
	}
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// State is the query applied to the record list.
type State struct {
	Term      string  `json:"q"`
	TodayOnly bool    `json:"today"`
	Sort      SortKey `json:"sort"`
}

// Normalized returns st with the term trimmed and an empty sort defaulted.
// Two states that compare equal after normalization select the same rows.
func (st State) Normalized() State {
	st.Term = strings.TrimSpace(st.Term)
	if st.Sort == "" {
		st.Sort = DefaultSort
	}
	return st
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	clock clockwork.Clock
	loc   *time.Location
	lang  language.Tag
}

func defaultConfig() config {
	return config{
		clock: clockwork.NewRealClock(),
		loc:   time.Local,
		lang:  language.English,
	}
}

// WithClock sets the clock that defines "today".
func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLocation sets the location whose calendar day is "today".
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.loc = loc
		}
	}
}

// WithCollator sets the language used for name ordering.
func WithCollator(tag language.Tag) Option {
	return func(cfg *config) {
		if tag != language.Und {
			cfg.lang = tag
		}
	}
}

// ----------------------------------------------------------------------------
// Engine

// Engine applies a State to a list of records.
type Engine struct {
	cfg config
}

// NewEngine builds an Engine with the given options applied over the
// defaults (real clock, time.Local, English collation).
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Location returns the engine's calendar location.
func (e *Engine) Location() *time.Location { return e.cfg.loc }

// Now returns the engine clock's current time in its location.
func (e *Engine) Now() time.Time { return e.cfg.clock.Now().In(e.cfg.loc) }

// Apply filters and sorts records according to st.
func (e *Engine) Apply(records []domain.Record, st State) []domain.Record {
	st = st.Normalized()
	term := strings.ToLower(st.Term)

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if term != "" && !strings.Contains(r.SearchName, term) && !strings.Contains(r.SearchEmail, term) {
			continue
		}
		out = append(out, r)
	}

	if st.TodayOnly {
		now := e.Now()
		kept := out[:0]
		for _, r := range out {
			if r.Date.Valid && dates.SameDay(r.Date.Time, now, e.cfg.loc) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	e.sort(out, st.Sort)
	return out
}

func (e *Engine) sort(recs []domain.Record, key SortKey) {
	switch key {
	case SortDateAsc:
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Date.Before(recs[j].Date)
		})
	case SortNameAsc, SortNameDesc:
		// collate.Collator keeps internal buffers; one per call.
		col := collate.New(e.cfg.lang, collate.IgnoreCase)
		desc := key == SortNameDesc
		sort.SliceStable(recs, func(i, j int) bool {
			c := col.CompareString(recs[i].Source.Name, recs[j].Source.Name)
			if desc {
				return c > 0
			}
			return c < 0
		})
	default:
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[j].Date.Before(recs[i].Date)
		})
	}
}
