package pagination

import "math"

const (
	DefaultSize = 20
	MaxSize     = 100

	// maxPage keeps Offset well inside int range even at MaxSize.
	maxPage = math.MaxInt32 / MaxSize
)

// Request is an offset-based page request. Page is zero-based.
type Request struct {
	Page int
	Size int
}

// Normalize clamps the request into valid bounds.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Page > maxPage {
		r.Page = maxPage
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

func (r Request) Offset() int { return r.Page * r.Size }

// Page is one page of results with total-count metadata.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	pages := p.Total / int64(p.Size)
	if p.Total%int64(p.Size) != 0 {
		pages++
	}
	return int(pages)
}

// Slice pages an already-filtered slice; used by the in-memory stores.
func Slice[T any](items []T, req Request) Page[T] {
	req = req.Normalize()
	total := int64(len(items))

	start := req.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items: items[start:end],
		Total: total,
		Page:  req.Page,
		Size:  req.Size,
	}
}
