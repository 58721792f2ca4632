package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dk-code-insights/storefront/internal/domain/currency"
)

func TestDefaultCatalog(t *testing.T) {
	s := Default()

	all := s.ListProducts("")
	assert.Len(t, all, 21)
	assert.Equal(t, "web-basic", all[0].ID)

	seen := map[string]bool{}
	for _, p := range all {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.True(t, s.HasCategory(p.Category), p.ID)
		assert.Positive(t, p.PriceZAR)
		assert.Positive(t, p.PriceUSD)
	}
}

func TestGetProduct(t *testing.T) {
	s := Default()

	p, err := s.GetProduct("web-standard")
	require.NoError(t, err)
	assert.Equal(t, "Standard Website", p.Title)
	assert.Equal(t, int64(2500), p.Price(currency.ZAR))
	assert.Equal(t, int64(135), p.Price(currency.USD))
	assert.True(t, p.Popular)

	_, err = s.GetProduct("nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListByCategory(t *testing.T) {
	s := Default()

	ds := s.ListProducts(CategoryDataScience)
	require.Len(t, ds, 5)
	for _, p := range ds {
		assert.Equal(t, CategoryDataScience, p.Category)
	}
	assert.Empty(t, s.ListProducts(Category("hardware")))
	assert.Len(t, s.Categories(), 4)
}

func TestReturnedProductsAreCopies(t *testing.T) {
	s := Default()

	p, err := s.GetProduct("web-basic")
	require.NoError(t, err)
	p.Features[0] = "mutated"

	again, err := s.GetProduct("web-basic")
	require.NoError(t, err)
	assert.Equal(t, "Simple layout", again.Features[0])
}
