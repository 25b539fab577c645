package entity

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is a limit/offset window over a listing
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the window to sane values
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// HasMore reports whether rows remain after this window
func (p Page) HasMore(total int64) bool {
	return int64(p.Offset+p.Limit) < total
}

// PageResult is one window of a listing plus the total row count
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

// NewPageResult wraps items fetched for page
func NewPageResult[T any](items []T, total int64, page Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: page}
}

// HasMore reports whether rows remain after this window
func (r PageResult[T]) HasMore() bool {
	return r.Page.HasMore(r.Total)
}
