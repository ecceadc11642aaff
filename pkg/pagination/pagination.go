package pagination

const (
	// DefaultPageSize is the standard page size when a filter does not set one.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows a list view may request.
	MaxPageSize = 100
)

// NormalizePageSize enforces the configured default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NormalizePage treats anything below 1 as the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages returns max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	pageSize = NormalizePageSize(pageSize)
	if count <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp keeps page within [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Next returns the page after current, never beyond totalPages.
func Next(current, totalPages int) int {
	return Clamp(NormalizePage(current)+1, totalPages)
}

// Prev returns the page before current, never below 1.
func Prev(current, totalPages int) int {
	return Clamp(NormalizePage(current)-1, totalPages)
}

// HasNext reports whether a Next action would move.
func HasNext(current, totalPages int) bool {
	return NormalizePage(current) < totalPages
}

// HasPrev reports whether a Prev action would move.
func HasPrev(current int) bool {
	return NormalizePage(current) > 1
}
