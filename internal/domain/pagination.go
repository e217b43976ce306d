package domain

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "id"
	SortAsc         = "ASC"
	SortDesc        = "DESC"
)

// PageRequest selects one zero-based page of a sorted listing.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// Validate checks paging bounds and sort direction and normalizes the
// direction to upper case.
func (r *PageRequest) Validate() error {
	var msgs []string
	if r.Page < 0 {
		msgs = append(msgs, "page index must not be less than zero")
	}
	if r.Size < 1 {
		msgs = append(msgs, "page size must not be less than one")
	} else if r.Size > MaxPageSize {
		msgs = append(msgs, "page size must not be greater than 100")
	} else if r.Page > math.MaxInt/r.Size {
		msgs = append(msgs, "page index is too large")
	}
	if strings.TrimSpace(r.SortBy) == "" {
		msgs = append(msgs, "sort field must not be empty")
	}
	dir := strings.ToUpper(strings.TrimSpace(r.SortDir))
	if dir != SortAsc && dir != SortDesc {
		msgs = append(msgs, "invalid sort direction '"+r.SortDir+"', expected ASC or DESC")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	r.SortDir = dir
	return nil
}

// Offset returns the number of rows preceding the requested page.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one slice of a listing plus totals across all pages.
type Page[T any] struct {
	Items         []T
	TotalElements int64
	TotalPages    int
}

// NewPage computes TotalPages from total and the page size.
func NewPage[T any](items []T, total int64, size int) Page[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, TotalElements: total, TotalPages: pages}
}
