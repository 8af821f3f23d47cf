package ports

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage bounds the page number so the skip offset stays within int32.
	MaxPage = 1<<31/MaxPageSize - 1
)

// PageRequest is a 1-based page selector.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and caps the page size at MaxPageSize and the
// page number at MaxPage.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of rows preceding the page. It is never negative.
func (p PageRequest) Skip() int64 {
	p = p.Normalize()
	return int64(p.Page-1) * int64(p.Limit)
}

// Page is one slice of a listing plus the totals needed to navigate it.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewPage assembles a Page for req from items and the overall total.
func NewPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: pages,
	}
}
