// internal/backend/users.go
package backend

import (
	"context"
	"fmt"

	"github.com/javajoker/perfume-storefront/internal/models"
)

// POST /auth/login
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GET /usuarios
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/usuarios", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// POST /usuarios
func (c *Client) CreateUser(ctx context.Context, payload *models.UserPayload) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/usuarios", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PUT /usuarios/:id
func (c *Client) UpdateUser(ctx context.Context, id int64, payload *models.UserPayload) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, fmt.Sprintf("/usuarios/%d", id), payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DELETE /usuarios/:id
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/usuarios/%d", id))
}

// GET /roles
func (c *Client) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := c.get(ctx, "/roles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GET /clientes
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.get(ctx, "/clientes", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// POST /clientes
func (c *Client) CreateCustomer(ctx context.Context, payload *models.CustomerPayload) (*models.Customer, error) {
	var customer models.Customer
	if err := c.post(ctx, "/clientes", payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
