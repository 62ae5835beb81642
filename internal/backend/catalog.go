// internal/backend/catalog.go
package backend

import (
	"context"
	"fmt"

	"github.com/javajoker/perfume-storefront/internal/models"
)

// GET /productos
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/productos", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GET /productos/:id
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := c.get(ctx, fmt.Sprintf("/productos/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// POST /productos
func (c *Client) CreateProduct(ctx context.Context, payload *models.ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.post(ctx, "/productos", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PUT /productos/:id
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload *models.ProductPayload) (*models.Product, error) {
	var product models.Product
	if err := c.put(ctx, fmt.Sprintf("/productos/%d", id), payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DELETE /productos/:id
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/productos/%d", id))
}

func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.get(ctx, "/marcas", &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/categorias", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	var types []models.ProductType
	if err := c.get(ctx, "/tipos-producto", &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) ListGenders(ctx context.Context) ([]models.Gender, error) {
	var genders []models.Gender
	if err := c.get(ctx, "/generos", &genders); err != nil {
		return nil, err
	}
	return genders, nil
}
