package services

import "math"

// Default and maximum page sizes for list operations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the envelope of every paginated result.
type Page[T any] struct {
	Results    []T   `json:"results"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a Page. TotalPages is at least 1 even when total is 0.
func NewPage[T any](results []T, total int64, page, pageSize int) Page[T] {
	if results == nil {
		results = []T{}
	}
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{Results: results, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}

// normalizePage applies defaults to a page request. Boundary layers reject
// malformed values; this only fills in zeros and caps the page size.
func normalizePage(page, pageSize int) (p, size, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page-1 > math.MaxInt/pageSize {
		// Past any stored row; keeps the offset from wrapping negative.
		return page, pageSize, math.MaxInt
	}
	return page, pageSize, (page - 1) * pageSize
}
