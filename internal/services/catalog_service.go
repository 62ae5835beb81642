// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

const (
	maxSuggestions   = 5
	featuredProducts = 4
)

type CatalogService struct {
	client *backend.Client
	cfg    *config.CatalogConfig
}

// CatalogFilter narrows the catalog. Zero means any.
type CatalogFilter struct {
	BrandID    int64 `json:"brand_id" form:"marca"`
	CategoryID int64 `json:"category_id" form:"categoria"`
	GenderID   int64 `json:"gender_id" form:"genero"`
}

func (f CatalogFilter) Matches(p *models.Product) bool {
	if !p.Active {
		return false
	}
	if f.BrandID != 0 && p.Brand.ID != f.BrandID {
		return false
	}
	if f.CategoryID != 0 && p.Category.ID != f.CategoryID {
		return false
	}
	if f.GenderID != 0 && p.Gender.ID != f.GenderID {
		return false
	}
	return true
}

// ProductCard is a product as rendered in listings.
type ProductCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	VolumeML    int    `json:"volume_ml"`
	Price       int64  `json:"price"`
	PriceLabel  string `json:"price_label"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
	CanAdd      bool   `json:"can_add"`
	ActionLabel string `json:"action_label"`
}

type CatalogView struct {
	Filter     CatalogFilter          `json:"filter"`
	Brands     []models.Brand         `json:"brands"`
	Categories []models.Category      `json:"categories"`
	Genders    []models.Gender        `json:"genders"`
	Page       utils.PaginationResult `json:"page"`
}

func NewCatalogService(client *backend.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		client: client,
		cfg:    &cfg.Catalog,
	}
}

// Browse fetches everything the catalog needs at once and pages the filtered products.
func (s *CatalogService) Browse(ctx context.Context, filter CatalogFilter, page int, lang string) (*CatalogView, error) {
	var (
		products   []models.Product
		brands     []models.Brand
		categories []models.Category
		genders    []models.Gender
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.client.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		brands, err = s.client.ListBrands(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.client.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		genders, err = s.client.ListGenders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	filtered := FilterProducts(products, filter)
	result := s.Paginate(filtered, page, lang)

	return &CatalogView{
		Filter:     filter,
		Brands:     emptyIfNil(brands),
		Categories: emptyIfNil(categories),
		Genders:    emptyIfNil(genders),
		Page:       result,
	}, nil
}

func FilterProducts(products []models.Product, filter CatalogFilter) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for i := range products {
		if filter.Matches(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}
	return filtered
}

// Paginate clamps page into range and renders the cards of that page.
func (s *CatalogService) Paginate(products []models.Product, page int, lang string) utils.PaginationResult {
	limit := s.cfg.PageSize
	totalPages := utils.TotalPages(len(products), limit)
	page = utils.ClampPage(page, totalPages)
	from, to := utils.PageBounds(page, limit, len(products))

	cards := make([]ProductCard, 0, to-from)
	for i := from; i < to; i++ {
		cards = append(cards, s.Card(&products[i], lang))
	}

	return utils.PaginationResult{
		Page:       page,
		Limit:      limit,
		Total:      int64(len(products)),
		TotalPages: totalPages,
		Pages:      utils.PageWindow(page, totalPages),
		Data:       cards,
	}
}

func (s *CatalogService) Card(p *models.Product, lang string) ProductCard {
	card := ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand.Name,
		Category:    p.Category.Name,
		Gender:      p.Gender.Name,
		Description: p.Description,
		VolumeML:    p.VolumeML,
		Price:       p.Price,
		PriceLabel:  FormatCLP(p.Price),
		ImageURL:    p.ImageURL,
		InStock:     p.InStock(),
	}

	if strings.TrimSpace(card.ImageURL) == "" {
		card.ImageURL = s.cfg.PlaceholderImage
	}

	card.CanAdd = card.InStock
	if card.InStock {
		card.ActionLabel = i18n.T(lang, i18n.KeyProductAdd)
	} else {
		card.ActionLabel = i18n.T(lang, i18n.KeyProductSoldOut)
	}
	return card
}

// Search suggests active products whose name or brand contains query.
func (s *CatalogService) Search(ctx context.Context, query, lang string) ([]ProductCard, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []ProductCard{}, nil
	}

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	cards := []ProductCard{}
	for i := range products {
		p := &products[i]
		if !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Brand.Name), query) {
			cards = append(cards, s.Card(p, lang))
			if len(cards) == maxSuggestions {
				break
			}
		}
	}
	return cards, nil
}

// Featured returns the first active products with stock, for the home page.
func (s *CatalogService) Featured(ctx context.Context, lang string) ([]ProductCard, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}

	cards := []ProductCard{}
	for i := range products {
		p := &products[i]
		if p.Active && p.InStock() {
			cards = append(cards, s.Card(p, lang))
			if len(cards) == featuredProducts {
				break
			}
		}
	}
	return cards, nil
}

// Product fetches one product for the cart. Inactive products are not sold.
func (s *CatalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, &backend.APIError{Method: http.MethodGet, Path: fmt.Sprintf("/productos/%d", id), Status: http.StatusNotFound}
	}
	return product, nil
}

// FormatCLP renders whole pesos the es-CL way, e.g. $12.990.
func FormatCLP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
