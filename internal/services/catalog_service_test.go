// internal/services/catalog_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/models"
)

func seedCatalog(h *harness, n int) {
	h.fake.Brands = []models.Brand{{ID: 1, Name: "Dior"}, {ID: 2, Name: "Chanel"}}
	h.fake.Categories = []models.Category{{ID: 1, Name: "Eau de Parfum"}}
	h.fake.Genders = []models.Gender{{ID: 1, Name: "Unisex"}, {ID: 2, Name: "Mujer"}}

	for i := 1; i <= n; i++ {
		p := perfume(int64(i), int64(10000+i*1000), 3)
		p.Name = fmt.Sprintf("Aroma %02d", i)
		if i%2 == 0 {
			p.Brand = models.Brand{ID: 2, Name: "Chanel"}
			p.Gender = models.Gender{ID: 2, Name: "Mujer"}
		}
		h.fake.AddProduct(p)
	}
}

func TestBrowsePaginates(t *testing.T) {
	h := newHarness(t)
	seedCatalog(h, 13)

	view, err := h.catalog.Browse(h.ctx, CatalogFilter{}, 3, "es")

	require.NoError(t, err)
	assert.Equal(t, 3, view.Page.TotalPages)
	assert.Equal(t, int64(13), view.Page.Total)
	assert.Equal(t, 3, view.Page.Page)
	assert.Len(t, view.Page.Data.([]ProductCard), 1)
	assert.Len(t, view.Brands, 2)
	assert.Len(t, view.Genders, 2)
}

func TestBrowseClampsPage(t *testing.T) {
	h := newHarness(t)
	seedCatalog(h, 13)

	view, err := h.catalog.Browse(h.ctx, CatalogFilter{}, 99, "es")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page.Page)

	view, err = h.catalog.Browse(h.ctx, CatalogFilter{}, 0, "es")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page.Page)
	assert.Len(t, view.Page.Data.([]ProductCard), 6)
}

func TestBrowseFilters(t *testing.T) {
	h := newHarness(t)
	seedCatalog(h, 13)

	view, err := h.catalog.Browse(h.ctx, CatalogFilter{BrandID: 2, GenderID: 2}, 1, "es")

	require.NoError(t, err)
	assert.Equal(t, int64(6), view.Page.Total)
	for _, card := range view.Page.Data.([]ProductCard) {
		assert.Equal(t, "Chanel", card.Brand)
	}
}

func TestBrowseHidesInactiveProducts(t *testing.T) {
	h := newHarness(t)
	seedCatalog(h, 2)
	hidden := perfume(50, 9000, 3)
	hidden.Active = false
	h.fake.AddProduct(hidden)

	view, err := h.catalog.Browse(h.ctx, CatalogFilter{}, 1, "es")

	require.NoError(t, err)
	assert.Equal(t, int64(2), view.Page.Total)
}

func TestCardPlaceholderAndSoldOut(t *testing.T) {
	h := newHarness(t)
	p := perfume(1, 12990, 0)

	card := h.catalog.Card(&p, "es")

	assert.Equal(t, h.cfg.Catalog.PlaceholderImage, card.ImageURL)
	assert.False(t, card.InStock)
	assert.False(t, card.CanAdd)
	assert.Equal(t, "Agotado", card.ActionLabel)
	assert.Equal(t, "$12.990", card.PriceLabel)

	p.Stock = 2
	p.ImageURL = "https://cdn.example.com/a.png"
	card = h.catalog.Card(&p, "es")
	assert.Equal(t, "https://cdn.example.com/a.png", card.ImageURL)
	assert.True(t, card.CanAdd)
	assert.Equal(t, "Agregar", card.ActionLabel)
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	h := newHarness(t)
	seedCatalog(h, 13)

	byName, err := h.catalog.Search(h.ctx, "aroma 1", "es")
	require.NoError(t, err)
	assert.Len(t, byName, 4)

	byBrand, err := h.catalog.Search(h.ctx, "CHANEL", "es")
	require.NoError(t, err)
	assert.Len(t, byBrand, maxSuggestions)

	none, err := h.catalog.Search(h.ctx, "   ", "es")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFeaturedSkipsSoldOut(t *testing.T) {
	h := newHarness(t)
	sold := perfume(1, 5000, 0)
	h.fake.AddProduct(sold)
	seedCatalog(h, 6)

	cards, err := h.catalog.Featured(h.ctx, "es")

	require.NoError(t, err)
	assert.Len(t, cards, featuredProducts)
	for _, card := range cards {
		assert.True(t, card.InStock)
	}
}

func TestProductHidesInactive(t *testing.T) {
	h := newHarness(t)
	p := perfume(1, 5000, 3)
	p.Active = false
	h.fake.AddProduct(p)

	_, err := h.catalog.Product(h.ctx, 1)

	assert.True(t, backend.IsNotFound(err))
}

func TestFormatCLP(t *testing.T) {
	assert.Equal(t, "$0", FormatCLP(0))
	assert.Equal(t, "$990", FormatCLP(990))
	assert.Equal(t, "$12.990", FormatCLP(12990))
	assert.Equal(t, "$1.234.567", FormatCLP(1234567))
	assert.Equal(t, "-$5.000", FormatCLP(-5000))
}
