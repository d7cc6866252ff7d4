package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a 1-based page of a listing.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults to zero values.
func (r PageRequest) Normalize() PageRequest {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
	return r
}

func (r PageRequest) Offset() int {
	r = r.Normalize()
	return (r.Page - 1) * r.Limit
}

// Page is one slice of a listing plus the metadata needed to iterate it.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

func (p Page[T]) Count() int {
	return len(p.Items)
}

// Pages is ceil(Total/Limit).
func (p Page[T]) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
