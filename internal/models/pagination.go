package models

import "math"

const (
	// DefaultPageLimit is the page size used when the client omits `limit`.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 50
)

// Pagination describes one page of a listing response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page summary for a listing of total rows.
func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// Offset returns the range offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ValidatePageLimit rejects out-of-range page and limit values before any
// data access happens.
func ValidatePageLimit(page, limit int) error {
	if page < 1 {
		return NewValidationError("Page must be >= 1")
	}
	if limit < 1 || limit > MaxPageLimit {
		return NewValidationError("Limit must be between 1 and 50")
	}
	return nil
}

// Post sort modes. Comments are always oldest-first and not configurable.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// ValidateSort rejects unknown post sort modes.
func ValidateSort(sort string) error {
	switch sort {
	case SortNewest, SortOldest, SortPopular:
		return nil
	}
	return NewValidationError("Sort must be one of: newest, oldest, popular")
}
