// Package pagination slices filtered collections into fixed-size pages.
package pagination

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Params carries the 1-based page number and the page size requested by a client.
type Params struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Normalize clamps the page number to at least 1 and the page size to [1, MaxPageSize].
// A missing or non-positive size falls back to DefaultPageSize.
func (p Params) Normalize() Params {
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

type Page[T any] struct {
	Items        []T
	TotalRecords int
	TotalPages   int
	PageNumber   int
	PageSize     int
}

// Paginate returns the requested page of items. A page past the end yields an
// empty, non-nil Items slice.
func Paginate[T any](items []T, params Params) Page[T] {
	params = params.Normalize()
	total := len(items)

	start := (params.PageNumber - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return Page[T]{
		Items:        pageItems,
		TotalRecords: total,
		TotalPages:   (total + params.PageSize - 1) / params.PageSize,
		PageNumber:   params.PageNumber,
		PageSize:     params.PageSize,
	}
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Items))
	for i, item := range page.Items {
		out[i] = fn(item)
	}
	return Page[U]{
		Items:        out,
		TotalRecords: page.TotalRecords,
		TotalPages:   page.TotalPages,
		PageNumber:   page.PageNumber,
		PageSize:     page.PageSize,
	}
}
