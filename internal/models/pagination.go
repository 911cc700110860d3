package models

import "strings"

// Sort order constants
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// ListQuery is the shared search/filter/sort/paginate request shape used by
// every listable resource. Zero values mean "not set" and are replaced with
// defaults by Normalize.
type ListQuery struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Normalize validates the query in place and fills in defaults:
// page 1, limit 20 (capped at 100), createdAt descending.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if strings.EqualFold(q.SortOrder, SortAsc) {
		q.SortOrder = SortAsc
	} else {
		q.SortOrder = SortDesc
	}
}

// Offset calculates the SQL offset for the query
func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination is the envelope accompanying every list result
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PageSize    int   `json:"page_size"`
}

// NewPagination builds the envelope for a result set. TotalPages is
// ceil(totalItems/pageSize) and never drops below 1, so an empty result
// still reports a single (empty) page. CurrentPage is clamped into
// [1, TotalPages] for display.
func NewPagination(page, pageSize int, totalItems int64) Pagination {
	totalPages := int(totalItems) / pageSize
	if int(totalItems)%pageSize > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    pageSize,
	}
}
