// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page is one slice of a list plus the navigation metadata a UI needs.
//
// Invariants:
//   - TotalPages == max(1, ceil(Total / PageSize))
//   - 1 <= Page <= TotalPages
//   - Window is a contiguous ascending run inside [1, TotalPages]
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	Window     []int `json:"window"`
}

// DefaultWindow is the number of page buttons shown around the current page.
const DefaultWindow = 5

// TotalPages returns max(1, ceil(total/pageSize)). A non-positive pageSize
// is treated as 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage clamps requested into [1, totalPages].
func ClampPage(requested, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > totalPages {
		return totalPages
	}
	return requested
}

// Paginate returns the requested page of list with a page-button window of
// DefaultWindow. The page count is always derived from len(list), so a
// request past the end lands on the last page.
func Paginate[T any](list []T, pageSize, requested int) Page[T] {
	return PaginateWindow(list, pageSize, requested, DefaultWindow)
}

// PaginateWindow is Paginate with an explicit window size.
func PaginateWindow[T any](list []T, pageSize, requested, window int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(list)
	pages := TotalPages(total, pageSize)
	page := ClampPage(requested, pages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, list[start:end])

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
		Window:     PageWindow(page, pages, window),
	}
}

// PageWindow returns at most size consecutive page numbers centred on
// current and clamped to [1, total]. When total < size every page is shown.
//
// Example (size 5, total 10): current 1 → 1..5, current 6 → 4..8,
// current 10 → 6..10.
func PageWindow(current, total, size int) []int {
	if total < 1 {
		total = 1
	}
	if size < 1 {
		size = 1
	}
	current = ClampPage(current, total)

	half := size / 2
	start := max(1, current-half)
	end := min(total, start+size-1)
	start = max(1, min(start, end-size+1))

	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
