package catalog

import (
	"sort"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Page is one derived slice of the catalog.
type Page struct {
	Items    []domain.Product `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
}

// Empty reports the "no results" state.
func (p Page) Empty() bool {
	return p.Total == 0
}

// Derive runs filter, search, sort and paginate over products, in that order.
// The input slice is never modified and equal inputs give equal output.
func Derive(products []domain.Product, c Criteria, search string, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = PageSize
	}

	filtered := filterByAttributes(products, c)
	filtered = filterBySearch(filtered, search)
	sortProducts(filtered, c.Sort)

	total := len(filtered)
	start := (page - 1) * pageSize
	end := page * pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  page*pageSize < total,
	}
}

func filterByAttributes(products []domain.Product, c Criteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price.LessThan(c.MinPrice) || p.Price.GreaterThan(c.MaxPrice) {
			continue
		}
		if len(c.Categories) > 0 && !c.hasCategory(p.CategoryID) {
			continue
		}
		if c.MinRating > 0 && p.RatingOrZero() < c.MinRating {
			continue
		}
		out = append(out, p)
	}
	return out
}

func filterBySearch(products []domain.Product, search string) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return products
	}
	out := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(products []domain.Product, key SortKey) {
	var less func(a, b domain.Product) bool
	switch key {
	case SortPriceLowHigh:
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHighLow:
		less = func(a, b domain.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNewest:
		// higher ids were created later
		less = func(a, b domain.Product) bool { return a.ID > b.ID }
	case SortRating:
		less = func(a, b domain.Product) bool { return a.RatingOrZero() > b.RatingOrZero() }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
