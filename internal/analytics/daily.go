// Package analytics computes the aggregate views behind the analytics page:
// a gap-free daily series with a trailing 7-day rolling average, and a top-N
// ranking of email domains.
//
// Both aggregators are pure functions over projected records. The caller
// supplies "now" and the calendar location, so results are reproducible.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tbourn/contact-dashboard/internal/dates"
	"github.com/tbourn/contact-dashboard/internal/domain"
)

// Look-back and ranking defaults.
const (
	DefaultDaysBack = 30
	DefaultTopN     = 10
	RollingWindow   = 7
)

// Day key and label layouts.
const (
	KeyLayout   = "2006-01-02"
	LabelLayout = "01/02"
)

// Bucket is one calendar day of the daily series.
type Bucket struct {
	Day   time.Time `json:"day"`
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Count int       `json:"count"`
	Avg7  float64   `json:"avg7"`
}

// Daily buckets records by calendar day over the daysBack days ending on
// now's day (in loc). Every day in the range is present, zero-filled.
// Unparseable dates and dates before the first day are skipped. A daysBack
// below 1 falls back to DefaultDaysBack.
func Daily(records []domain.Record, daysBack int, now time.Time, loc *time.Location) []Bucket {
	if daysBack < 1 {
		daysBack = DefaultDaysBack
	}
	if loc == nil {
		loc = time.Local
	}
	today := dates.StartOfDay(now, loc)
	start := today.AddDate(0, 0, -(daysBack - 1))

	counts := make(map[string]int)
	for _, r := range records {
		if !r.Date.Valid {
			continue
		}
		day := dates.StartOfDay(r.Date.Time, loc)
		if day.Before(start) {
			continue
		}
		counts[day.Format(KeyLayout)]++
	}

	out := make([]Bucket, daysBack)
	for i := range out {
		day := start.AddDate(0, 0, i)
		key := day.Format(KeyLayout)
		out[i] = Bucket{
			Day:   day,
			Key:   key,
			Label: day.Format(LabelLayout),
			Count: counts[key],
		}
	}

	sum := 0
	for i := range out {
		sum += out[i].Count
		if i >= RollingWindow {
			sum -= out[i-RollingWindow].Count
		}
		n := min(i+1, RollingWindow)
		out[i].Avg7 = mean(sum, n)
	}
	return out
}

// mean returns sum/n rounded to two decimals.
func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(n))).
		Round(2).
		InexactFloat64()
}

// Counts returns the raw per-day counts of buckets.
func Counts(buckets []Bucket) []int {
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = b.Count
	}
	return out
}
