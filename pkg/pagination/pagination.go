// Package pagination provides zero-indexed page math shared by the
// interactive menus (admin queue reorder, moderation list).
package pagination

// TotalPages returns the index of the last page for count items at the given
// page size. Pages are zero-indexed, so a count of 0 still yields a single
// (empty) page 0.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count - 1) / pageSize
}

// Clamp keeps page within [0, TotalPages(count, pageSize)].
func Clamp(page, count, pageSize int) int {
	last := TotalPages(count, pageSize)
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}

// Bounds returns the [start, end) slice range for the given page.
// The page is clamped first, so out-of-range pages never panic.
func Bounds(page, count, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, 0
	}
	page = Clamp(page, count, pageSize)
	start := page * pageSize
	if start > count {
		start = count
	}
	end := start + pageSize
	if end > count {
		end = count
	}
	return start, end
}
