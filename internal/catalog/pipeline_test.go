package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, name, price string, category int64, rating *float64) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: category,
		Rating:     rating,
	}
}

func rating(v float64) *float64 { return &v }

func ids(products []domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		product(1, "Blue Mug", "12.50", 1, rating(4.5)),
		product(2, "Red Kettle", "45.00", 2, rating(3.9)),
		product(3, "Green Mug", "9.99", 1, nil),
		product(4, "Teapot", "30.00", 2, rating(4.8)),
		product(5, "Mug Rack", "19.00", 3, rating(4.5)),
	}
}

func TestDerive_FeaturedKeepsCatalogOrder(t *testing.T) {
	page := Derive(sampleCatalog(), DefaultCriteria(), "", 1, PageSize)

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(page.Items))
	assert.Equal(t, 5, page.Total)
	assert.False(t, page.HasMore)
	assert.False(t, page.Empty())
}

func TestDerive_PriceRangeIsInclusive(t *testing.T) {
	c := DefaultCriteria()
	c.MinPrice = decimal.RequireFromString("12.50")
	c.MaxPrice = decimal.RequireFromString("30.00")

	page := Derive(sampleCatalog(), c, "", 1, PageSize)

	assert.Equal(t, []int64{1, 4, 5}, ids(page.Items))
}

func TestDerive_CategoryFilter(t *testing.T) {
	c := DefaultCriteria()
	c.Categories = []int64{1, 3}

	page := Derive(sampleCatalog(), c, "", 1, PageSize)

	assert.Equal(t, []int64{1, 3, 5}, ids(page.Items))
}

func TestDerive_MinRatingTreatsMissingAsZero(t *testing.T) {
	c := DefaultCriteria()
	c.MinRating = 4

	page := Derive(sampleCatalog(), c, "", 1, PageSize)

	assert.Equal(t, []int64{1, 4, 5}, ids(page.Items))
}

func TestDerive_SearchIsCaseInsensitiveAndNarrowsOnly(t *testing.T) {
	c := DefaultCriteria()
	c.Categories = []int64{1}

	page := Derive(sampleCatalog(), c, "MUG", 1, PageSize)

	// "Mug Rack" matches the term but was already filtered out by category
	assert.Equal(t, []int64{1, 3}, ids(page.Items))
}

func TestDerive_Sorts(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int64
	}{
		{SortFeatured, []int64{1, 2, 3, 4, 5}},
		{SortPriceLowHigh, []int64{3, 1, 5, 4, 2}},
		{SortPriceHighLow, []int64{2, 4, 5, 1, 3}},
		{SortNewest, []int64{5, 4, 3, 2, 1}},
		// 1 and 5 tie on 4.5 and keep catalog order
		{SortRating, []int64{4, 1, 5, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			c := DefaultCriteria()
			c.Sort = tt.key
			page := Derive(sampleCatalog(), c, "", 1, PageSize)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}
}

func TestDerive_PriceSortIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	products := make([]domain.Product, 200)
	for i := range products {
		cents := rng.Intn(50000)
		products[i] = product(int64(i+1), fmt.Sprintf("item %d", i), decimal.New(int64(cents), -2).String(), 1, nil)
	}

	c := DefaultCriteria()
	c.Sort = SortPriceLowHigh
	asc := Derive(products, c, "", 1, len(products))
	for i := 1; i < len(asc.Items); i++ {
		assert.True(t, asc.Items[i-1].Price.LessThanOrEqual(asc.Items[i].Price))
	}

	c.Sort = SortPriceHighLow
	desc := Derive(products, c, "", 1, len(products))
	for i := 1; i < len(desc.Items); i++ {
		assert.True(t, desc.Items[i-1].Price.GreaterThanOrEqual(desc.Items[i].Price))
	}
}

func TestDerive_Paginates(t *testing.T) {
	products := make([]domain.Product, 30)
	for i := range products {
		products[i] = product(int64(i+1), fmt.Sprintf("item %d", i+1), "10", 1, nil)
	}

	first := Derive(products, DefaultCriteria(), "", 1, PageSize)
	require.Len(t, first.Items, 12)
	assert.Equal(t, int64(1), first.Items[0].ID)
	assert.True(t, first.HasMore)

	third := Derive(products, DefaultCriteria(), "", 3, PageSize)
	require.Len(t, third.Items, 6)
	assert.Equal(t, int64(25), third.Items[0].ID)
	assert.False(t, third.HasMore)

	beyond := Derive(products, DefaultCriteria(), "", 9, PageSize)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 30, beyond.Total)
}

func TestDerive_ExactPageBoundaryHasNoMore(t *testing.T) {
	products := make([]domain.Product, 24)
	for i := range products {
		products[i] = product(int64(i+1), "item", "1", 1, nil)
	}

	page := Derive(products, DefaultCriteria(), "", 2, PageSize)
	assert.Len(t, page.Items, 12)
	assert.False(t, page.HasMore)
}

func TestDerive_PageBelowOneIsFirstPage(t *testing.T) {
	page := Derive(sampleCatalog(), DefaultCriteria(), "", 0, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []int64{1, 2}, ids(page.Items))
}

func TestDerive_NoResultsIsEmptyNotError(t *testing.T) {
	page := Derive(sampleCatalog(), DefaultCriteria(), "bicycle", 1, PageSize)
	assert.True(t, page.Empty())
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	products := sampleCatalog()
	c := DefaultCriteria()
	c.Sort = SortPriceHighLow

	first := Derive(products, c, "", 1, PageSize)
	second := Derive(products, c, "", 1, PageSize)

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(products))
	assert.Equal(t, first, second)
}

func TestCriteria_Validate(t *testing.T) {
	c := DefaultCriteria()
	assert.NoError(t, c.Validate())

	c.MinPrice = decimal.NewFromInt(50)
	c.MaxPrice = decimal.NewFromInt(10)
	assert.ErrorIs(t, c.Validate(), ErrInvalidPriceRange)

	c = DefaultCriteria()
	c.MinPrice = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.Validate(), ErrNegativePrice)

	c = DefaultCriteria()
	c.MinRating = 6
	assert.ErrorIs(t, c.Validate(), ErrInvalidRating)

	c = DefaultCriteria()
	c.Sort = "alphabetical"
	assert.Error(t, c.Validate())
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, k)

	k, err = ParseSortKey("price-high-low")
	require.NoError(t, err)
	assert.Equal(t, SortPriceHighLow, k)

	_, err = ParseSortKey("cheapest")
	assert.Error(t, err)
}
