package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcNormalizer() Normalizer { return NewNormalizer(time.UTC) }

func TestNormalize_ISOWinsAndNeverFallsThrough(t *testing.T) {
	n := utcNormalizer()
	cases := map[string]time.Time{
		"2025-03-04":                time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		"2025-03-04T10:20":          time.Date(2025, 3, 4, 10, 20, 0, 0, time.UTC),
		"2025-03-04T10:20:30":       time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC),
		"2025-03-04T10:20:30.250Z":  time.Date(2025, 3, 4, 10, 20, 30, 250_000_000, time.UTC),
		"2025-03-04T10:20:30+02:00": time.Date(2025, 3, 4, 8, 20, 30, 0, time.UTC),
		"2025-03-04 10:20:30":       time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC),
		"20250304":                  time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			got := n.Normalize(raw)
			require.True(t, got.Valid)
			assert.Equal(t, SourceISO, got.Source)
			assert.True(t, want.Equal(got.Time), "got %s want %s", got.Time, want)
		})
	}
}

func TestNormalize_MonthDayYear(t *testing.T) {
	n := utcNormalizer()

	got := n.Normalize("03/04/2025")
	require.True(t, got.Valid)
	assert.Equal(t, SourceMonthDay, got.Source)
	assert.Equal(t, time.March, got.Time.Month())
	assert.Equal(t, 4, got.Time.Day())

	got = n.Normalize("3/4/2025")
	require.True(t, got.Valid)
	assert.Equal(t, SourceMonthDay, got.Source)
}

func TestParseMonthDayYear_RejectsImpossibleDates(t *testing.T) {
	_, ok := ParseMonthDayYear("02/30/2025", time.UTC)
	assert.False(t, ok)
	_, ok = ParseMonthDayYear("13/01/2025", time.UTC)
	assert.False(t, ok)
}

func TestNormalize_PermissiveFallback(t *testing.T) {
	got := utcNormalizer().Normalize("March 4, 2025")
	require.True(t, got.Valid)
	assert.Equal(t, SourcePermissive, got.Source)
	assert.Equal(t, 2025, got.Time.Year())
	assert.Equal(t, time.March, got.Time.Month())
	assert.Equal(t, 4, got.Time.Day())
}

func TestNormalize_Unparseable(t *testing.T) {
	n := utcNormalizer()
	for _, raw := range []string{"", "   ", "not a date", "??/??/????"} {
		got := n.Normalize(raw)
		assert.False(t, got.Valid, raw)
		assert.Equal(t, Unparseable(), got, raw)
		assert.Zero(t, got.UnixMilli())
	}
}

func TestNormalize_DateOnlyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := NewNormalizer(loc).Normalize("2025-03-04")
	require.True(t, got.Valid)
	assert.Equal(t, time.Date(2025, 3, 4, 5, 0, 0, 0, time.UTC), got.Time.UTC())
}

func TestNormalize_Deterministic(t *testing.T) {
	n := utcNormalizer()
	a := n.Normalize("Jan 2, 2025")
	b := n.Normalize("Jan 2, 2025")
	assert.Equal(t, a, b)
}

func TestNormalize_CustomChainOrder(t *testing.T) {
	n := Normalizer{
		Location: time.UTC,
		Parsers:  []Parser{{Name: SourceMonthDay, Parse: ParseMonthDayYear}},
	}
	assert.False(t, n.Normalize("2025-03-04").Valid)
	assert.True(t, n.Normalize("03/04/2025").Valid)
}

func TestResult_BeforeTreatsUnparseableAsEarliest(t *testing.T) {
	valid := Result{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	assert.True(t, Unparseable().Before(valid))
	assert.False(t, valid.Before(Unparseable()))
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2025, 3, 4, 0, 0, 1, 0, loc)
	b := time.Date(2025, 3, 4, 23, 59, 59, 0, loc)
	c := time.Date(2025, 3, 5, 0, 0, 0, 0, loc)
	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(b, c, loc))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, loc), StartOfDay(b, loc))
}
