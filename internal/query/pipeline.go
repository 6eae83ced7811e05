package query

import (
	"sort"
	"strings"

	"kasir-backoffice/internal/domain"
)

// PageSize is the fixed number of products per page.
const PageSize = 10

// SortKey selects the field products are ordered by
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
	SortByStock SortKey = "stock"
	// SortByRecent orders by last modification time and is the default when
	// no explicit key is chosen.
	SortByRecent SortKey = "recent"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Params describes one pass through the filter, sort and paginate pipeline.
type Params struct {
	Search     string
	CategoryID string
	SortBy     SortKey
	Order      SortOrder
	Page       int
}

// Result holds one page of the filtered and sorted snapshot. CurrentPage is
// the clamped page that was actually served.
type Result struct {
	Items       []domain.Product `json:"items"`
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	TotalItems  int              `json:"total_items"`
}

// Apply runs the full pipeline over a snapshot. The snapshot is never
// mutated; sorting happens on an internal copy.
func Apply(snapshot []domain.Product, params Params) Result {
	filtered := Filter(snapshot, params.Search, params.CategoryID)
	Sort(filtered, params.SortBy, params.Order)
	return Paginate(filtered, params.Page)
}

// Filter keeps products whose name contains the search term
// case-insensitively (an empty term matches all) and whose category matches
// the filter when one is set. Category IDs are compared as strings to
// tolerate mixed numeric and string representations.
func Filter(snapshot []domain.Product, search, categoryID string) []domain.Product {
	term := strings.ToLower(search)

	filtered := make([]domain.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Sort orders products in place by the given key and direction. Name
// comparison is case-insensitive lexicographic; Price and Stock compare as
// numbers. An unknown or empty key falls back to most recently updated first,
// with the zero time standing in for products that were never stamped.
// Relative order of equal keys is not defined.
func Sort(products []domain.Product, key SortKey, order SortOrder) {
	if order != SortOrderAsc && order != SortOrderDesc {
		order = SortOrderAsc
	}

	var less func(a, b domain.Product) bool
	switch key {
	case SortByName:
		less = func(a, b domain.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByPrice:
		less = func(a, b domain.Product) bool {
			return a.Price.LessThan(b.Price)
		}
	case SortByStock:
		less = func(a, b domain.Product) bool {
			return a.Stock < b.Stock
		}
	default:
		// Default view: newest modification first regardless of the
		// requested direction.
		sort.Slice(products, func(i, j int) bool {
			return products[i].LastUpdated.After(products[j].LastUpdated)
		})
		return
	}

	sort.Slice(products, func(i, j int) bool {
		if order == SortOrderDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// Paginate slices one fixed-size page out of the filtered list. Pages are
// 1-based. The reported CurrentPage is clamped into [1, ceil(n/PageSize)],
// but a request past the last page still yields an empty slice rather than
// the clamped page's contents or an error.
func Paginate(products []domain.Product, page int) Result {
	total := len(products)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	clamped := page
	if clamped < 1 {
		clamped = 1
	}
	if clamped > totalPages {
		clamped = totalPages
	}

	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, products[start:end])

	return Result{
		Items:       items,
		CurrentPage: clamped,
		TotalPages:  totalPages,
		TotalItems:  total,
	}
}
