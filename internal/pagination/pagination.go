// Package pagination holds the page math shared by the SKU selector, the
// order dashboard and the catalog listing.
package pagination

// TotalPages returns the number of fixed-size pages needed for total items.
// A zero or negative total yields 0 pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Clamp keeps a 1-based page index within [1, max(1, totalPages)]. Owners
// call this after any derivation that may have shrunk the page count.
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the [start, end) window into a slice of length total for
// the given 1-based page.
func Bounds(page, size, total int) (int, int) {
	if size <= 0 || total <= 0 || page < 1 {
		return 0, 0
	}
	start := (page - 1) * size
	if start >= total {
		return 0, 0
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// Pages lists the page numbers 1..totalPages, one per control in a page strip.
func Pages(totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	out := make([]int, totalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
