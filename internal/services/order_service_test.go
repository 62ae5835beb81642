// internal/services/order_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/perfume-storefront/internal/models"
)

func TestMyOrdersNewestFirstAndOwnOnly(t *testing.T) {
	h := newHarness(t)
	h.customer("ana@example.com", 7)
	session := h.login(t, "ana@example.com")

	h.fake.Orders = []models.Order{
		{ID: 1, Customer: &models.Customer{ID: 7}, Date: "2026-01-02T10:00:00", Total: 11900, Status: models.OrderStatusPaid},
		{ID: 2, Customer: &models.Customer{ID: 8}, Date: "2026-03-01T10:00:00", Total: 5000},
		{ID: 3, Customer: &models.Customer{ID: 7}, Date: "2026-02-15T09:30:00", Total: 23800},
	}

	orders, err := h.orders.MyOrders(h.ctx, session)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[1].ID)
}

func TestSummarizeFillsMissingTotals(t *testing.T) {
	h := newHarness(t)

	summary := h.orders.Summarize(&models.Order{
		OrderID: 9,
		Lines: []models.OrderLine{
			{Quantity: 2, UnitPrice: 5000},
			{Quantity: 1, UnitPrice: 1900},
		},
	})

	assert.Equal(t, int64(9), summary.ID)
	assert.Equal(t, int64(11900), summary.Total)
	assert.Equal(t, int64(10000), summary.Subtotal)
	assert.Equal(t, int64(1900), summary.Tax)
}

func TestSummarizeKeepsBackendTotals(t *testing.T) {
	h := newHarness(t)

	summary := h.orders.Summarize(&models.Order{ID: 4, Subtotal: 54000, Discount: 6000, Tax: 10260, Total: 64260})

	assert.Equal(t, int64(54000), summary.Subtotal)
	assert.Equal(t, int64(10260), summary.Tax)
	assert.Equal(t, int64(64260), summary.Total)
	assert.NotNil(t, summary.Lines)
}

func TestOrderOfAnotherCustomerIsHidden(t *testing.T) {
	h := newHarness(t)
	h.customer("ana@example.com", 7)
	session := h.login(t, "ana@example.com")
	h.fake.Orders = []models.Order{{ID: 2, Customer: &models.Customer{ID: 8}, Total: 5000}}

	_, err := h.orders.Order(h.ctx, session, 2)
	assert.True(t, errors.Is(err, ErrOrderNotFound))

	_, err = h.orders.Order(h.ctx, session, 99)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestPlacedOrderShowsInHistory(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 60000, 5))

	confirmation, err := h.checkout.Checkout(h.ctx, session)
	require.NoError(t, err)

	summary, err := h.orders.Order(h.ctx, session, confirmation.OrderID)
	require.NoError(t, err)
	assert.Equal(t, confirmation.Quote.Total, summary.Total)
	assert.Len(t, summary.Lines, 1)
}
