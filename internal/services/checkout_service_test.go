// internal/services/checkout_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/storage"
)

func TestQuote(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		subtotal int64
		want     models.Quote
	}{
		{
			name:     "above threshold gets discount",
			subtotal: 60000,
			want:     models.Quote{Subtotal: 60000, Discount: 6000, Taxable: 54000, Tax: 10260, Total: 64260, DiscountApplied: true},
		},
		{
			name:     "threshold itself has no discount",
			subtotal: 59990,
			want:     models.Quote{Subtotal: 59990, Discount: 0, Taxable: 59990, Tax: 11398, Total: 71388},
		},
		{
			name:     "tax rounds half up",
			subtotal: 50,
			want:     models.Quote{Subtotal: 50, Taxable: 50, Tax: 10, Total: 60},
		},
		{
			name:     "empty",
			subtotal: 0,
			want:     models.Quote{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.checkout.Quote(tt.subtotal))
		})
	}
}

// boundCart logs a customer in and fills its backend cart.
func boundCart(t *testing.T, h *harness, products ...models.Product) *Session {
	t.Helper()
	h.customer("ana@example.com", 7)
	session := h.login(t, "ana@example.com")
	for i := range products {
		h.fake.AddProduct(products[i])
		_, err := h.carts.AddToCart(h.ctx, session, &products[i])
		require.NoError(t, err)
	}
	return session
}

func TestCheckoutPlacesOrder(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5), perfume(2, 40000, 5))
	h.fake.ResetCalls()

	confirmation, err := h.checkout.Checkout(h.ctx, session)

	require.NoError(t, err)
	assert.NotZero(t, confirmation.OrderID)
	assert.Equal(t, 2, confirmation.Lines)
	assert.Equal(t, int64(64260), confirmation.Quote.Total)

	assert.Equal(t, 1, h.fake.Calls("POST /pedidos"))
	assert.Equal(t, 2, h.fake.Calls("POST /detalles-pedido"))
	assert.Equal(t, 1, h.fake.Calls("DELETE /carrito/cliente/:customerId"))
	assert.Len(t, h.fake.OrderLinesFor(confirmation.OrderID), 2)
	assert.Empty(t, h.fake.ServerCart(7))

	require.Len(t, h.fake.Orders, 1)
	order := h.fake.Orders[0]
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(6000), order.Discount)
	assert.Equal(t, int64(10260), order.Tax)
	assert.Equal(t, "Santiago", order.ShippingCommune)

	saga, err := h.checkout.PendingSaga(h.ctx, session)
	require.NoError(t, err)
	assert.Nil(t, saga)
}

func TestCheckoutPreconditionsMakeNoCalls(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(t)
		session := h.anonymous(t)

		_, err := h.checkout.Checkout(h.ctx, session)

		assert.True(t, errors.Is(err, ErrNotAuthenticated))
		assert.True(t, IsPrecondition(err))
		assert.Zero(t, h.fake.TotalCalls())
	})

	t.Run("no customer", func(t *testing.T) {
		h := newHarness(t)
		h.customer("ana@example.com", 7)
		session := h.login(t, "ana@example.com")
		h.fake.ResetCalls()

		_, err := h.checkout.Checkout(h.ctx, session)

		assert.True(t, errors.Is(err, ErrNoCustomerProfile))
		assert.Zero(t, h.fake.TotalCalls())
	})

	t.Run("empty cart", func(t *testing.T) {
		h := newHarness(t)
		session := boundCart(t, h)
		_, err := h.carts.Cart(h.ctx, session)
		require.NoError(t, err)
		h.fake.ResetCalls()

		_, err = h.checkout.Checkout(h.ctx, session)

		assert.True(t, errors.Is(err, ErrEmptyCart))
		assert.Zero(t, h.fake.TotalCalls())
	})

	t.Run("cart never read", func(t *testing.T) {
		h := newHarness(t)
		session := boundCart(t, h, perfume(1, 20000, 5))
		require.NoError(t, h.store.Remove(h.ctx, testVisitor, storage.KeyBoundCart))
		h.fake.ResetCalls()

		_, err := h.checkout.Checkout(h.ctx, session)

		assert.True(t, errors.Is(err, ErrEmptyCart))
		assert.Zero(t, h.fake.TotalCalls())
	})
}

func TestCheckoutOrdersCurrentServerCart(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	h.fake.AddProduct(perfume(2, 30000, 5))

	// Another browser of the same customer adds a line.
	err := h.client.AddCartLine(h.ctx, &models.CartLinePayload{
		Customer: models.IDRef{ID: 7},
		Product:  models.ProductRef{ID: 2},
		Quantity: 1,
	})
	require.NoError(t, err)

	confirmation, err := h.checkout.Checkout(h.ctx, session)

	require.NoError(t, err)
	assert.Equal(t, 2, confirmation.Lines)
	assert.Equal(t, int64(50000), confirmation.Quote.Subtotal)
}

func TestCheckoutStopsWhenServerCartEmptiedElsewhere(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	require.NoError(t, h.client.ClearCart(h.ctx, 7))
	h.fake.ResetCalls()

	_, err := h.checkout.Checkout(h.ctx, session)

	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.Zero(t, h.fake.Calls("POST /pedidos"))
}

func TestSagaOfAnotherAccountIsIgnored(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	require.NoError(t, storage.SetJSON(h.ctx, h.store, testVisitor, storage.KeyCheckoutSaga, &models.CheckoutSaga{
		ID:         "other",
		CustomerID: 99,
		OrderID:    555,
		Status:     models.SagaStatusPartial,
		Lines:      []models.SagaLine{{ProductID: 1, Quantity: 1}},
	}))

	saga, err := h.checkout.PendingSaga(h.ctx, session)
	require.NoError(t, err)
	assert.Nil(t, saga)

	_, err = h.checkout.Resume(h.ctx, session)
	assert.True(t, errors.Is(err, ErrNoPendingCheckout))
	assert.Empty(t, h.fake.OrderLinesFor(555))

	confirmation, err := h.checkout.Checkout(h.ctx, session)
	require.NoError(t, err)
	assert.NotEqual(t, int64(555), confirmation.OrderID)
}

func TestLogoutDropsInterruptedCheckout(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5), perfume(2, 40000, 5))
	h.fake.RejectProduct(2)

	_, err := h.checkout.Checkout(h.ctx, session)
	require.True(t, errors.Is(err, ErrCheckoutIncomplete))
	h.fake.AcceptProduct(2)

	require.NoError(t, h.sessions.Logout(h.ctx, testVisitor))
	_, found, err := h.store.Get(h.ctx, testVisitor, storage.KeyCheckoutSaga)
	require.NoError(t, err)
	assert.False(t, found)

	h.customer("bob@example.com", 8)
	bob := h.login(t, "bob@example.com")
	h.fake.AddProduct(perfume(3, 15000, 5))
	product := perfume(3, 15000, 5)
	_, err = h.carts.AddToCart(h.ctx, bob, &product)
	require.NoError(t, err)

	_, err = h.checkout.Resume(h.ctx, bob)
	assert.True(t, errors.Is(err, ErrNoPendingCheckout))

	confirmation, err := h.checkout.Checkout(h.ctx, bob)

	require.NoError(t, err)
	assert.Equal(t, 1, confirmation.Lines)
	assert.Empty(t, h.fake.ServerCart(8))
	assert.Len(t, h.fake.ServerCart(7), 2)
}

func TestCheckoutAcceptsLegacyOrderId(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	h.fake.LegacyOrderID = true

	confirmation, err := h.checkout.Checkout(h.ctx, session)

	require.NoError(t, err)
	assert.NotZero(t, confirmation.OrderID)
	assert.Len(t, h.fake.OrderLinesFor(confirmation.OrderID), 1)
}

func TestCheckoutFailsWithoutOrderId(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	h.fake.OmitOrderID = true

	_, err := h.checkout.Checkout(h.ctx, session)

	assert.True(t, errors.Is(err, ErrMissingOrderID))
	assert.Zero(t, h.fake.Calls("POST /detalles-pedido"))
	assert.Len(t, h.fake.ServerCart(7), 1)
}

func TestCheckoutHeaderFailureKeepsCart(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5))
	h.fake.FailNext("POST /pedidos", 1)

	_, err := h.checkout.Checkout(h.ctx, session)

	require.Error(t, err)
	assert.Len(t, h.fake.ServerCart(7), 1)

	// The header never landed, so a fresh checkout is allowed.
	confirmation, err := h.checkout.Checkout(h.ctx, session)
	require.NoError(t, err)
	assert.NotZero(t, confirmation.OrderID)
}

func TestResumePostsOnlyPendingLines(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 20000, 5), perfume(2, 40000, 5))
	h.fake.RejectProduct(2)

	_, err := h.checkout.Checkout(h.ctx, session)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckoutIncomplete))
	assert.Len(t, h.fake.ServerCart(7), 2)

	saga, err := h.checkout.PendingSaga(h.ctx, session)
	require.NoError(t, err)
	require.NotNil(t, saga)
	assert.Equal(t, models.SagaStatusPartial, saga.Status)
	assert.Equal(t, []int{1}, saga.PendingLines())

	_, err = h.checkout.Checkout(h.ctx, session)
	assert.True(t, errors.Is(err, ErrCheckoutPending))

	h.fake.AcceptProduct(2)
	h.fake.ResetCalls()

	confirmation, err := h.checkout.Resume(h.ctx, session)

	require.NoError(t, err)
	assert.Equal(t, saga.OrderID, confirmation.OrderID)
	assert.Zero(t, h.fake.Calls("POST /pedidos"))
	assert.Equal(t, 1, h.fake.Calls("POST /detalles-pedido"))
	assert.Len(t, h.fake.OrderLinesFor(saga.OrderID), 2)
	assert.Empty(t, h.fake.ServerCart(7))

	_, found, err := h.store.Get(h.ctx, testVisitor, storage.KeyCheckoutSaga)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResumeWithoutSaga(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h)

	_, err := h.checkout.Resume(h.ctx, session)

	assert.True(t, errors.Is(err, ErrNoPendingCheckout))
}

func TestQuoteCart(t *testing.T) {
	h := newHarness(t)
	session := boundCart(t, h, perfume(1, 30000, 5), perfume(2, 30000, 5))

	quote, cart, err := h.checkout.QuoteCart(h.ctx, session)

	require.NoError(t, err)
	assert.Equal(t, int64(60000), cart.Total)
	assert.Equal(t, int64(64260), quote.Total)
}
