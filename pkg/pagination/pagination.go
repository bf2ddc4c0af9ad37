package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any paged query can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs for list queries.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 1 and the page size to the allowed range.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Page is one page of a server-side paged listing. Field tags follow the
// backend's page envelope: records, total, current, size, pages.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
	Pages   int   `json:"pages"`
}

// PageCount returns the page count the backend recorded, computing it
// from total and size when the envelope omitted it.
func (p Page[T]) PageCount() int {
	if p.Pages > 0 {
		return p.Pages
	}
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	pages := p.Total / int64(p.Size)
	if p.Total%int64(p.Size) != 0 {
		pages++
	}
	return int(pages)
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Current < p.PageCount()
}
