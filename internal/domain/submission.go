package domain

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tbourn/contact-dashboard/internal/dates"
)

// Submission is one contact-form entry as returned by the webhook API.
//
// Only id, name, email and date are kept; any other field in the payload is
// ignored on decode and never propagated. EmailPresent is false when the
// payload carried no email or a non-string one, which domain extraction
// reports as "(missing)".
type Submission struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Date         string `json:"date"`
	EmailPresent bool   `json:"-"`
}

// UnmarshalJSON decodes a loosely shaped webhook record. Numeric ids are
// rendered in their shortest decimal form; other non-string values become
// empty strings.
func (s *Submission) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID    any `json:"id"`
		Name  any `json:"name"`
		Email any `json:"email"`
		Date  any `json:"date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	email, present := raw.Email.(string)
	*s = Submission{
		ID:           scalarString(raw.ID),
		Name:         scalarString(raw.Name),
		Email:        email,
		Date:         scalarString(raw.Date),
		EmailPresent: present,
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Record is the read-only normalized view over a Submission used by the query
// engine and the aggregators.
type Record struct {
	Source      Submission
	Date        dates.Result
	SearchName  string
	SearchEmail string
}

// Project maps s into a Record. It is pure and total.
func Project(s Submission, n dates.Normalizer) Record {
	return Record{
		Source:      s,
		Date:        n.Normalize(s.Date),
		SearchName:  strings.ToLower(s.Name),
		SearchEmail: strings.ToLower(s.Email),
	}
}

// ProjectAll projects every submission, preserving order.
func ProjectAll(subs []Submission, n dates.Normalizer) []Record {
	out := make([]Record, len(subs))
	for i, s := range subs {
		out[i] = Project(s, n)
	}
	return out
}

// IndexOf returns the position of the submission with id, or -1.
func IndexOf(subs []Submission, id string) int {
	for i := range subs {
		if subs[i].ID == id {
			return i
		}
	}
	return -1
}
