package portfolio

// PageSize is the fixed portfolio page size. Paging is purely client-side;
// the backend always returns the full list.
const PageSize = 20

// PageCount returns ceil(n/PageSize), with a minimum of 1 so an empty
// result set still renders page 1 of 1.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage keeps a 1-based page index inside [1, PageCount(n)]. Used after
// filtering shrinks the result set under the current page.
func ClampPage(page, n int) int {
	if page < 1 {
		return 1
	}
	if max := PageCount(n); page > max {
		return max
	}
	return page
}

// PageBounds returns the 1-based inclusive display range [first, last] for
// a page over n rows. first is 0 when the set is empty.
func PageBounds(page, n int) (first, last int) {
	if n == 0 {
		return 0, 0
	}
	page = ClampPage(page, n)
	first = (page-1)*PageSize + 1
	last = page * PageSize
	if last > n {
		last = n
	}
	return first, last
}

// PageSlice returns the rows visible on a 1-based page.
func PageSlice(skus []Sku, page int) []Sku {
	first, last := PageBounds(page, len(skus))
	if first == 0 {
		return nil
	}
	return skus[first-1 : last]
}
