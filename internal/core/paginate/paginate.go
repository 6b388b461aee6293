// Package paginate projects an ordered sequence onto a single page.
package paginate

// DefaultPageSize is the number of items shown per page.
const DefaultPageSize = 5

// Page is the visible slice of a sequence plus its position.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
}

// HasPrev reports whether a page exists before this one.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a page exists after this one.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Project returns page number page of items split into pages of size.
// An empty sequence is one page of zero items. page is clamped into
// [1, TotalPages] and size < 1 falls back to DefaultPageSize. Source order is
// preserved.
func Project[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}

	total := (len(items) + size - 1) / size
	if total == 0 {
		total = 1
	}

	page = min(max(page, 1), total)

	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))

	return Page[T]{
		Items:      items[start:end:end],
		Number:     page,
		TotalPages: total,
	}
}
