package models

import "math"

// Pagination defaults. Limits above MaxLimit are cut down to it.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination describes one page of a filtered result.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination clamps page and limit into range and derives the page
// count for total results. Page is capped so Offset cannot overflow.
func NewPagination(total, page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	page = min(page, math.MaxInt32/limit)
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// Offset is the index of the first result on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
