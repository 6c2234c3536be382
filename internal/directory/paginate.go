package directory

import (
	"escort-directory/internal/profiles"
)

// DefaultPageSize is the directory grid size.
const DefaultPageSize = 28

// Page is one window of the sorted, filtered result.
type Page struct {
	Items      []*profiles.Profile
	TotalPages int
	TotalCount int
}

// Paginate slices a fixed-size window out of the sorted list. Pages are
// 1-indexed; a page beyond the range yields an empty slice. Callers must
// guard page <= 0 (handlers clamp to 1) and must reset to page 1 whenever
// the filter or sort strategy changes.
func Paginate(items []*profiles.Profile, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return Page{Items: []*profiles.Profile{}, TotalPages: totalPages, TotalCount: total}
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{Items: items[start:end], TotalPages: totalPages, TotalCount: total}
}
