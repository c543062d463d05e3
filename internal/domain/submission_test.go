package domain

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/contact-dashboard/internal/dates"
)

func TestSubmission_UnmarshalJSON_LooseShapes(t *testing.T) {
	payload := `[
		{"id":"1","name":"Alice","email":"alice@example.com","date":"2025-03-04","extra":{"x":1}},
		{"id":42,"name":"Bob","email":17,"date":"03/04/2025"},
		{"name":"Carol","email":null},
		{"id":"4","name":null}
	]`
	var subs []Submission
	require.NoError(t, json.Unmarshal([]byte(payload), &subs))
	require.Len(t, subs, 4)

	assert.Equal(t, Submission{ID: "1", Name: "Alice", Email: "alice@example.com", Date: "2025-03-04", EmailPresent: true}, subs[0])
	assert.Equal(t, "42", subs[1].ID)
	assert.False(t, subs[1].EmailPresent)
	assert.Empty(t, subs[1].Email)
	assert.Empty(t, subs[2].ID)
	assert.False(t, subs[2].EmailPresent)
	assert.Empty(t, subs[3].Name)
	assert.False(t, subs[3].EmailPresent)
}

func TestProject_LowercasesKeysAndParsesDate(t *testing.T) {
	n := dates.NewNormalizer(time.UTC)
	s := Submission{ID: "1", Name: "Alice Smith", Email: "Alice@Example.COM", Date: "03/04/2025", EmailPresent: true}

	r := Project(s, n)
	assert.Equal(t, s, r.Source)
	assert.Equal(t, "alice smith", r.SearchName)
	assert.Equal(t, "alice@example.com", r.SearchEmail)
	require.True(t, r.Date.Valid)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), r.Date.Time)

	// Pure: same input, same output.
	assert.Equal(t, r, Project(s, n))
}

func TestProject_MissingFieldsYieldEmptyKeys(t *testing.T) {
	r := Project(Submission{ID: "x"}, dates.NewNormalizer(time.UTC))
	assert.Empty(t, r.SearchName)
	assert.Empty(t, r.SearchEmail)
	assert.False(t, r.Date.Valid)
}

func TestProjectAll_OneRecordPerSubmission(t *testing.T) {
	subs := []Submission{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	recs := ProjectAll(subs, dates.NewNormalizer(time.UTC))
	require.Len(t, recs, 3)
	for i := range subs {
		assert.Equal(t, subs[i].ID, recs[i].Source.ID)
	}
	assert.Equal(t, 1, IndexOf(subs, "b"))
	assert.Equal(t, -1, IndexOf(subs, "zz"))
}
