package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PageSize is the fixed number of products shown per catalog page.
const PageSize = 12

type SortKey string

const (
	SortFeatured     SortKey = "featured"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
	SortNewest       SortKey = "newest"
	SortRating       SortKey = "rating"
)

const (
	defaultMaxPrice = 1000
	maxRatingFilter = 5
)

var (
	ErrInvalidPriceRange = errors.New("minimum price must not exceed maximum price")
	ErrNegativePrice     = errors.New("price bounds must not be negative")
	ErrInvalidRating     = errors.New("minimum rating must be between 0 and 5")
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceLowHigh, SortPriceHighLow, SortNewest, SortRating:
		return k, nil
	case "":
		return SortFeatured, nil
	}
	return "", fmt.Errorf("unsupported sort key %q", s)
}

// Criteria is the attribute filter and sort order the shopper has chosen.
// The free-text search term lives next to it in Browser.
type Criteria struct {
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
	Categories []int64
	Sort       SortKey
	MinRating  float64
}

func DefaultCriteria() Criteria {
	return Criteria{
		MinPrice: decimal.Zero,
		MaxPrice: decimal.NewFromInt(defaultMaxPrice),
		Sort:     SortFeatured,
	}
}

func (c Criteria) Validate() error {
	if c.MinPrice.IsNegative() || c.MaxPrice.IsNegative() {
		return ErrNegativePrice
	}
	if c.MinPrice.GreaterThan(c.MaxPrice) {
		return ErrInvalidPriceRange
	}
	if c.MinRating < 0 || c.MinRating > maxRatingFilter {
		return ErrInvalidRating
	}
	if _, err := ParseSortKey(string(c.Sort)); err != nil {
		return err
	}
	return nil
}

func (c Criteria) hasCategory(id int64) bool {
	for _, cat := range c.Categories {
		if cat == id {
			return true
		}
	}
	return false
}
