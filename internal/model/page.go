package model

import (
	"fmt"
	"math"
	"strings"
)

// Default drop-down paging.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageIndex keeps Page*Size within int for every allowed size.
	MaxPageIndex = math.MaxInt / MaxPageSize
)

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort orders a page by one field.
type Sort struct {
	Field     string
	Direction SortDirection
}

// String renders the sort in the "field,dir" query form.
func (s Sort) String() string {
	return s.Field + "," + string(s.Direction)
}

// ParseSort parses "field" or "field,dir". Unknown directions are rejected.
func ParseSort(raw string) (*Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	field, dir, _ := strings.Cut(raw, ",")
	s := &Sort{Field: strings.TrimSpace(field), Direction: SortAsc}
	if s.Field == "" {
		return nil, fmt.Errorf("sort field is empty")
	}
	switch SortDirection(strings.ToLower(strings.TrimSpace(dir))) {
	case "", SortAsc:
	case SortDesc:
		s.Direction = SortDesc
	default:
		return nil, fmt.Errorf("invalid sort direction %q", dir)
	}
	return s, nil
}

// PageRequest asks for one page of a listing. Page is a 0-based index.
type PageRequest struct {
	Page int
	Size int
	Sort *Sort
}

// NewPageRequest returns a request for the given page and size without sorting.
func NewPageRequest(page, size int) PageRequest {
	return PageRequest{Page: page, Size: size}
}

// Normalize clamps out-of-range pages and sizes.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPageIndex {
		p.Page = MaxPageIndex
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped by this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of results plus the total number of matching elements.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"total_elements"`
}
