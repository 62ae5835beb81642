// internal/backend/orders.go
package backend

import (
	"context"
	"fmt"

	"github.com/javajoker/perfume-storefront/internal/models"
)

// GET /carrito/cliente/:customerId
func (c *Client) ListCartLines(ctx context.Context, customerID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := c.get(ctx, fmt.Sprintf("/carrito/cliente/%d", customerID), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// POST /carrito
func (c *Client) AddCartLine(ctx context.Context, payload *models.CartLinePayload) error {
	return c.post(ctx, "/carrito", payload, nil)
}

// DELETE /carrito/:id
func (c *Client) DeleteCartLine(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/carrito/%d", id))
}

// DELETE /carrito/cliente/:customerId
func (c *Client) ClearCart(ctx context.Context, customerID int64) error {
	return c.delete(ctx, fmt.Sprintf("/carrito/cliente/%d", customerID))
}

// GET /pedidos
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/pedidos", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GET /pedidos/:id
func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, fmt.Sprintf("/pedidos/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /pedidos
func (c *Client) CreateOrder(ctx context.Context, payload *models.OrderPayload) (*models.Order, error) {
	var order models.Order
	if err := c.post(ctx, "/pedidos", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /detalles-pedido
func (c *Client) CreateOrderLine(ctx context.Context, payload *models.OrderLinePayload) error {
	return c.post(ctx, "/detalles-pedido", payload, nil)
}
