// Package export renders derived views (submission tables, daily series,
// domain rankings) into downloadable XLSX, CSV and PDF documents.
//
// Inputs are plain tables: an ordered list of column names and rows mapping
// column name to value. A column missing from a row renders as an empty cell.
// Nothing in this package knows about submissions or analytics.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format is an output document type.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
	PDF  Format = "pdf"
)

// ParseFormat validates s against allowed (all formats when empty).
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if len(allowed) == 0 {
		allowed = []Format{XLSX, CSV, PDF}
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case CSV:
		return "text/csv; charset=utf-8"
	case PDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Filename joins base and the format extension.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// GeneratedLayout formats the "Generated on" timestamp.
const GeneratedLayout = "01/02/2006 15:04"

// GeneratedLine returns the trailing summary line stamped on every export.
func GeneratedLine(now time.Time) string {
	return "Generated on: " + now.Format(GeneratedLayout)
}

// Table is a titled grid with optional summary lines.
type Table struct {
	Title        string
	Columns      []string
	Rows         []map[string]any
	SummaryLines []string
}

// Sheet is one named worksheet of a workbook.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []map[string]any
}

// Sheet returns t as a worksheet called name.
func (t Table) Sheet(name string) Sheet {
	return Sheet{Name: name, Columns: t.Columns, Rows: t.Rows}
}

// cellText renders v for text formats (CSV, PDF).
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format("01/02/2006")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// cellValue renders v for XLSX, keeping numbers numeric.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return x.InexactFloat64()
	default:
		return x
	}
}

func rowValues(cols []string, row map[string]any, conv func(any) any) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = conv(row[c])
	}
	return out
}
