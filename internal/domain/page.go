package domain

// PaginationParams carries page/pageSize values from the HTTP layer to the repo layer.
// Page is 1-indexed. PageSize is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// PageSize is the maximum number of items to return.
	PageSize int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, pageSize=20).
// The page size is capped at 100 to prevent runaway queries.
func NewPaginationParams(page, pageSize *int) PaginationParams {
	p := PaginationParams{Page: 1, PageSize: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if pageSize != nil && *pageSize >= 1 {
		p.PageSize = *pageSize
		if p.PageSize > 100 {
			p.PageSize = 100
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
