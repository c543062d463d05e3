// Package dates converts the loosely formatted date strings found on contact
// submissions into time values.
//
// Normalization runs an explicit, ordered chain of parsers and stops at the
// first one that accepts the input:
//
//  1. ISO-8601 (date, date-time, with or without offset)
//  2. MM/DD/YYYY
//  3. a permissive general parser (dateparse)
//
// The order matters: ISO wins over locale-shaped formats so an ambiguous
// string is never silently read with day and month swapped. Failure is a
// value (Result.Valid == false), never an error or a panic.
package dates

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Source names identify which parser accepted an input.
const (
	SourceISO        = "iso8601"
	SourceMonthDay   = "mm/dd/yyyy"
	SourcePermissive = "permissive"
)

// Result is the outcome of normalizing one raw date string. The zero value
// is the Unparseable marker.
type Result struct {
	Time   time.Time
	Valid  bool
	Source string
}

// Unparseable returns the marker used when no parser accepts the input.
func Unparseable() Result { return Result{} }

// Before reports whether r sorts strictly before o when Unparseable is
// treated as the earliest possible instant.
func (r Result) Before(o Result) bool {
	if !r.Valid {
		return o.Valid
	}
	return o.Valid && r.Time.Before(o.Time)
}

// UnixMilli returns the instant in milliseconds, or 0 for Unparseable.
func (r Result) UnixMilli() int64 {
	if !r.Valid {
		return 0
	}
	return r.Time.UnixMilli()
}

// Parser is one attempt in the normalization chain.
type Parser struct {
	Name  string
	Parse func(raw string, loc *time.Location) (time.Time, bool)
}

// Normalizer runs the parser chain in a fixed location. Offset-less inputs
// (including bare dates) are interpreted in Location.
type Normalizer struct {
	Location *time.Location
	Parsers  []Parser
}

// NewNormalizer returns a Normalizer with the default chain
// ISO-8601 → MM/DD/YYYY → permissive. A nil loc means time.Local.
func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return Normalizer{
		Location: loc,
		Parsers:  DefaultParsers(),
	}
}

// DefaultParsers returns the ordered default chain.
func DefaultParsers() []Parser {
	return []Parser{
		{Name: SourceISO, Parse: ParseISO},
		{Name: SourceMonthDay, Parse: ParseMonthDayYear},
		{Name: SourcePermissive, Parse: ParsePermissive},
	}
}

// Normalize converts raw into a Result. Empty or whitespace-only input is
// Unparseable.
func (n Normalizer) Normalize(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unparseable()
	}
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	parsers := n.Parsers
	if parsers == nil {
		parsers = DefaultParsers()
	}
	for _, p := range parsers {
		if t, ok := p.Parse(s, loc); ok {
			return Result{Time: t, Valid: true, Source: p.Name}
		}
	}
	return Unparseable()
}

// isoLayouts are tried in order. time.Parse accepts fractional seconds after
// the seconds field even when the layout omits them.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"20060102T150405Z0700",
	"20060102",
	"2006-01",
	"2006",
}

// ParseISO accepts the common ISO-8601 calendar forms.
func ParseISO(raw string, loc *time.Location) (time.Time, bool) {
	if len(raw) < 4 || raw[0] < '0' || raw[0] > '9' {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMonthDayYear accepts US-style MM/DD/YYYY (one- or two-digit month and
// day). Impossible calendar dates such as 02/30/2025 are rejected.
func ParseMonthDayYear(raw string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("1/2/2006", raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParsePermissive is the last resort. dateparse has panicked on malformed
// input in the past, so a panic is converted into a failed attempt.
func ParsePermissive(raw string, loc *time.Location) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(raw, loc)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed, true
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}
