package pagination

import "math"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the page metadata returned with list responses.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
	Offset  int   `json:"-"`
}

// PaginationRequest represents a pagination request from client
type PaginationRequest struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// New creates a new pagination instance
func New(page, limit int, total int64) *Pagination {
	req := Normalize(page, limit)

	pages := int(math.Ceil(float64(total) / float64(req.Limit)))
	if pages < 1 {
		pages = 1
	}

	return &Pagination{
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: req.Page < pages,
		HasPrev: req.Page > 1,
		Offset:  req.Offset(),
	}
}

// Normalize clamps page to at least 1 and limit to 1..MaxLimit.
func Normalize(page, limit int) *PaginationRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return &PaginationRequest{Page: page, Limit: limit}
}

// Offset returns the number of items to skip.
func (r *PaginationRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}
