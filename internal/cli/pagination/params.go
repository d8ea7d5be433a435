package pagination

import (
	"errors"
	"math"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Params holds the paging flags. The zero value returns everything.
type Params struct {
	// Limit caps the number of items (offset mode). Zero means no cap.
	Limit int
	// Offset skips items (offset mode).
	Offset int
	// Page is 1-based (page mode). Zero disables page mode.
	Page     int
	PageSize int
}

// Validate checks bounds and that the two modes are not mixed.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.Page > 0 && p.Offset > 0 {
		return errors.New("page and offset parameters are mutually exclusive")
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page")
	}
	return nil
}

// IsPageBased reports whether page mode is active.
func (p Params) IsPageBased() bool { return p.Page > 0 }

// IsEnabled reports whether any paging is requested.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0
}

// OffsetLimit returns the effective window. A zero limit means "to the end".
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) OffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the window of items selected by p. A page past the end is
// clamped to the last page; an offset past the end yields no items.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}
	offset, limit := p.OffsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 {
		end = min(offset+limit, len(items))
	}
	return items[offset:end]
}

// Meta describes a paged result.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta computes paging metadata for total items.
func NewMeta(p Params, total int) Meta {
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = p.Limit
	}
	if pageSize == 0 {
		pageSize = total
	}

	current := p.Page
	if current == 0 && p.Offset > 0 && pageSize > 0 {
		current = p.Offset/pageSize + 1
	}
	if current == 0 {
		current = 1
	}

	pages := 0
	if pageSize > 0 {
		pages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return Meta{
		CurrentPage: current,
		PageSize:    pageSize,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: current > 1,
		HasNext:     current < pages,
	}
}
