package repo

// PageRequest selects one page of a result. Values are not validated here:
// callers are expected to send Number >= 0 and Size > 0.
type PageRequest struct {
	Number int
	Size   int
}

// Offset is the number of rows to skip before the page starts.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// Page carries one page of items plus the total count matching the query.
type Page[T any] struct {
	Items   []T
	Request PageRequest
	Total   int64
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Request: req, Total: total}
}

func (p Page[T]) TotalPages() int {
	if p.Request.Size <= 0 {
		return 0
	}
	size := int64(p.Request.Size)
	return int((p.Total + size - 1) / size)
}

// Last reports whether no page follows this one.
func (p Page[T]) Last() bool {
	return p.Request.Number+1 >= p.TotalPages()
}
