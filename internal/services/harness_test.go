// internal/services/harness_test.go
package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/storage"
	"github.com/javajoker/perfume-storefront/internal/testutil"
)

const testVisitor = "visitor-1"

type harness struct {
	fake     *testutil.FakeBackend
	store    *storage.MemoryStore
	cfg      *config.Config
	client   *backend.Client
	sessions *SessionService
	carts    *CartService
	checkout *CheckoutService
	orders   *OrderService
	catalog  *CatalogService
	admin    *AdminService
	ctx      context.Context
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{RequestTimeout: 5},
		State:       config.StateConfig{Driver: "memory", CookieName: "sf_visitor"},
		Auth:        config.AuthConfig{AdminRoles: []string{"ADMIN", "ADMINISTRADOR"}},
		Checkout: config.CheckoutConfig{
			DiscountThreshold: 59990,
			DiscountRate:      "0.10",
			TaxRate:           "0.19",
			ShippingAddress:   "Dirección Principal",
			ShippingCommune:   "Santiago",
			ShippingRegion:    "Metropolitana",
		},
		Catalog: config.CatalogConfig{
			PageSize:         6,
			PlaceholderImage: "https://placehold.co/400x400?text=Sin+Imagen",
		},
		I18n: config.I18nConfig{DefaultLocale: "es"},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	require.NoError(t, i18n.Initialize("es"))

	h := &harness{
		fake:  testutil.NewFakeBackend(t),
		store: storage.NewMemoryStore(time.Hour),
		cfg:   testConfig(),
		ctx:   storage.WithVisitor(context.Background(), testVisitor),
	}
	t.Cleanup(func() { h.store.Close() })

	logger := quietLogger()
	h.cfg.Backend.BaseURL = h.fake.URL()
	h.client = backend.New(h.fake.URL(), h.cfg.Backend.Timeout(), storage.TokenSource(h.store), logger)
	h.sessions = NewSessionService(h.client, h.store, h.cfg, logger)
	h.carts = NewCartService(h.client, h.store, h.sessions, logger)

	var err error
	h.checkout, err = NewCheckoutService(h.client, h.store, h.sessions, h.carts, h.cfg, logger)
	require.NoError(t, err)
	h.orders, err = NewOrderService(h.client, h.sessions, h.cfg)
	require.NoError(t, err)
	h.catalog = NewCatalogService(h.client, h.cfg)
	h.admin = NewAdminService(h.client, logger)

	return h
}

// customer registers an account with a customer profile.
func (h *harness) customer(email string, customerID int64) models.User {
	user := models.User{ID: customerID + 100, FirstName: "Ana", LastName: "Pérez", Email: email, Active: true}
	h.fake.AddAccount(user, "secreto1", customerID)
	return user
}

func (h *harness) login(t *testing.T, email string) *Session {
	t.Helper()
	session, err := h.sessions.Login(h.ctx, testVisitor, &LoginRequest{Email: email, Password: "secreto1"})
	require.NoError(t, err)
	require.True(t, session.Authenticated())
	return session
}

func (h *harness) anonymous(t *testing.T) *Session {
	t.Helper()
	session, err := h.sessions.Restore(h.ctx, testVisitor)
	require.NoError(t, err)
	return session
}

func perfume(id, price int64, stock int) models.Product {
	return models.Product{
		ID:       id,
		Name:     "Perfume " + string(rune('A'+id%26)),
		Price:    price,
		Stock:    stock,
		VolumeML: 100,
		Active:   true,
		Brand:    models.Brand{ID: 1, Name: "Dior"},
		Category: models.Category{ID: 1, Name: "Eau de Parfum"},
		Gender:   models.Gender{ID: 1, Name: "Unisex"},
	}
}
