package utils

// Page is one slice of a stably ordered collection.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Number     int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate slices items into 1-based pages of pageSize. Out-of-range page
// numbers (zero, negative, or past the end) clamp to the nearest valid page
// rather than failing. An empty collection is a single empty page, and an
// exact multiple of pageSize produces no trailing empty page.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
