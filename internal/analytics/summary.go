package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Summary is the headline block of the analytics export.
type Summary struct {
	DaysBack  int          `json:"days_back"`
	Total     int          `json:"total"`
	AvgPerDay string       `json:"avg_per_day"`
	Top       *DomainCount `json:"top_domain,omitempty"`
}

// Summarize totals the series and picks the leading domain.
func Summarize(buckets []Bucket, domains []DomainCount, daysBack int) Summary {
	s := Summary{DaysBack: daysBack, AvgPerDay: "0.00"}
	for _, b := range buckets {
		s.Total += b.Count
	}
	if len(buckets) > 0 {
		s.AvgPerDay = decimal.NewFromInt(int64(s.Total)).
			Div(decimal.NewFromInt(int64(len(buckets)))).
			StringFixed(2)
	}
	if len(domains) > 0 {
		top := domains[0]
		s.Top = &top
	}
	return s
}

// TopDomainLine renders the leading domain as "domain (count)" or "N/A".
func (s Summary) TopDomainLine() string {
	if s.Top == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s (%d)", s.Top.Domain, s.Top.Count)
}

// Lines returns the summary lines printed at the top of the export, without
// the trailing generation timestamp.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Range: last %d days", s.DaysBack),
		fmt.Sprintf("Total submissions: %d", s.Total),
		fmt.Sprintf("Average per day: %s", s.AvgPerDay),
		fmt.Sprintf("Top domain: %s", s.TopDomainLine()),
	}
}
