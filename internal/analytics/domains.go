package analytics

import (
	"sort"
	"strings"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// Placeholder domains for emails that cannot be attributed.
const (
	DomainMissing = "(missing)"
	DomainInvalid = "(invalid)"
)

// DomainCount is one row of the domain ranking.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// EmailDomain extracts the lower-cased domain after the last "@".
// An absent or empty email is DomainMissing. No "@", nothing after it, or
// nothing before it is DomainInvalid.
func EmailDomain(email string, present bool) string {
	if !present || email == "" {
		return DomainMissing
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return DomainInvalid
	}
	d := strings.ToLower(strings.TrimSpace(email[at+1:]))
	if d == "" {
		return DomainInvalid
	}
	return d
}

// Domains counts records per email domain and returns the topN largest.
// Ties keep first-appearance order. topN is clamped to at least 1; the tail
// beyond topN is dropped.
func Domains(records []domain.Record, topN int) []DomainCount {
	if topN < 1 {
		topN = 1
	}
	index := make(map[string]int)
	var out []DomainCount
	for _, r := range records {
		d := EmailDomain(r.Source.Email, r.Source.EmailPresent)
		if i, ok := index[d]; ok {
			out[i].Count++
			continue
		}
		index[d] = len(out)
		out = append(out, DomainCount{Domain: d, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
