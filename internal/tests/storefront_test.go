// internal/tests/storefront_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/router"
	"github.com/javajoker/perfume-storefront/internal/storage"
	"github.com/javajoker/perfume-storefront/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta struct {
		Pagination struct {
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

type StorefrontTestSuite struct {
	suite.Suite
	fake   *testutil.FakeBackend
	store  *storage.MemoryStore
	router *gin.Engine
	cookie *http.Cookie
}

func (suite *StorefrontTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	require.NoError(suite.T(), i18n.Initialize("es"))

	suite.fake = testutil.NewFakeBackend(suite.T())
	suite.store = storage.NewMemoryStore(time.Hour)
	suite.cookie = nil

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{BaseURL: suite.fake.URL(), RequestTimeout: 5},
		State:       config.StateConfig{Driver: "memory", CookieName: "sf_visitor", CookieMaxAge: 3600},
		Auth:        config.AuthConfig{AdminRoles: []string{"ADMIN", "ADMINISTRADOR"}},
		Checkout: config.CheckoutConfig{
			DiscountThreshold: 59990,
			DiscountRate:      "0.10",
			TaxRate:           "0.19",
			ShippingAddress:   "Dirección Principal",
			ShippingCommune:   "Santiago",
			ShippingRegion:    "Metropolitana",
		},
		Catalog:   config.CatalogConfig{PageSize: 6, PlaceholderImage: "https://placehold.co/400x400"},
		AWS:       config.AWSConfig{LocalUploadDir: suite.T().TempDir(), LocalUploadURL: "http://localhost:3000/uploads"},
		RateLimit: config.RateLimitConfig{GeneralPerSecond: 1000, GeneralBurst: 1000, AuthPerMinute: 1000, AuthBurst: 1000},
		I18n:      config.I18nConfig{DefaultLocale: "es"},
		Frontend:  config.FrontendConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}

	r, err := router.Initialize(cfg, suite.store, logger)
	require.NoError(suite.T(), err)
	suite.router = r

	for i := int64(1); i <= 3; i++ {
		suite.fake.AddProduct(models.Product{
			ID:       i,
			Name:     "Perfume",
			Price:    20000,
			Stock:    5,
			VolumeML: 100,
			Active:   true,
			Brand:    models.Brand{ID: 1, Name: "Dior"},
			Category: models.Category{ID: 1, Name: "Eau de Parfum"},
			Gender:   models.Gender{ID: 1, Name: "Unisex"},
		})
	}
	user := models.User{ID: 101, FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com", Active: true}
	suite.fake.AddAccount(user, "secreto1", 1)
}

func (suite *StorefrontTestSuite) TearDownTest() {
	suite.store.Close()
}

// do sends a request as the same browser, carrying the visitor cookie.
func (suite *StorefrontTestSuite) do(method, path string, body interface{}) (int, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if suite.cookie != nil {
		req.AddCookie(suite.cookie)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "sf_visitor" {
			suite.cookie = c
		}
	}

	var response envelope
	if w.Body.Len() > 0 {
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w.Code, response
}

func (suite *StorefrontTestSuite) login() {
	suite.loginAs("ana@example.com")
}

func (suite *StorefrontTestSuite) loginAs(email string) {
	code, resp := suite.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"correo":     email,
		"contrasena": "secreto1",
	})
	require.Equal(suite.T(), http.StatusOK, code)
	require.True(suite.T(), resp.Success)
}

func (suite *StorefrontTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "healthy")
}

func (suite *StorefrontTestSuite) TestUnknownRoute() {
	code, resp := suite.do(http.MethodGet, "/v1/nothing-here", nil)

	assert.Equal(suite.T(), http.StatusNotFound, code)
	assert.False(suite.T(), resp.Success)
}

func (suite *StorefrontTestSuite) TestGuestCartKeepsVisitorState() {
	code, resp := suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 1})
	require.Equal(suite.T(), http.StatusOK, code, resp)
	require.NotNil(suite.T(), suite.cookie)

	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 1})

	code, resp = suite.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(suite.T(), http.StatusOK, code)

	var cart models.Cart
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &cart))
	assert.Equal(suite.T(), models.CartModeGuest, cart.Mode)
	require.Len(suite.T(), cart.Lines, 1)
	assert.Equal(suite.T(), 2, cart.Lines[0].Quantity)
	assert.Equal(suite.T(), int64(40000), cart.Total)
	assert.Zero(suite.T(), suite.fake.Calls("POST /carrito"))
}

func (suite *StorefrontTestSuite) TestAddUnknownProduct() {
	code, resp := suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 99})

	assert.Equal(suite.T(), http.StatusNotFound, code)
	assert.False(suite.T(), resp.Success)
}

func (suite *StorefrontTestSuite) TestProtectedRoutesNeedLogin() {
	for _, path := range []string{"/v1/checkout/quote", "/v1/orders"} {
		code, _ := suite.do(http.MethodGet, path, nil)
		assert.Equal(suite.T(), http.StatusUnauthorized, code, path)
	}

	code, _ := suite.do(http.MethodGet, "/v1/admin/products", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, code)
}

func (suite *StorefrontTestSuite) TestCustomerIsNotAdmin() {
	suite.login()

	code, resp := suite.do(http.MethodGet, "/v1/admin/users", nil)

	assert.Equal(suite.T(), http.StatusForbidden, code)
	assert.False(suite.T(), resp.Success)
}

func (suite *StorefrontTestSuite) TestBadCredentials() {
	code, resp := suite.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"correo":     "ana@example.com",
		"contrasena": "incorrecta",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, code)
	assert.False(suite.T(), resp.Success)
}

func (suite *StorefrontTestSuite) TestLoginSyncsGuestCartAndChecksOut() {
	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 1})
	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 2})

	suite.login()
	assert.Equal(suite.T(), 2, suite.fake.Calls("POST /carrito"))
	assert.Len(suite.T(), suite.fake.ServerCart(1), 2)

	code, resp := suite.do(http.MethodGet, "/v1/auth/me", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var me struct {
		Authenticated bool            `json:"authenticated"`
		CartMode      models.CartMode `json:"cart_mode"`
	}
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &me))
	assert.True(suite.T(), me.Authenticated)
	assert.Equal(suite.T(), models.CartModeBound, me.CartMode)

	code, resp = suite.do(http.MethodGet, "/v1/checkout/quote", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var quoted struct {
		Quote models.Quote `json:"quote"`
	}
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &quoted))
	assert.Equal(suite.T(), int64(40000), quoted.Quote.Subtotal)
	assert.Equal(suite.T(), int64(7600), quoted.Quote.Tax)
	assert.Equal(suite.T(), int64(47600), quoted.Quote.Total)

	code, resp = suite.do(http.MethodPost, "/v1/checkout", nil)
	require.Equal(suite.T(), http.StatusCreated, code, string(resp.Data))
	var placed struct {
		Confirmation models.Confirmation `json:"confirmation"`
	}
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &placed))
	assert.NotZero(suite.T(), placed.Confirmation.OrderID)
	assert.Equal(suite.T(), 2, placed.Confirmation.Lines)
	assert.Empty(suite.T(), suite.fake.ServerCart(1))

	code, resp = suite.do(http.MethodGet, "/v1/orders", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var orders []models.OrderSummary
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &orders))
	require.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), placed.Confirmation.OrderID, orders[0].ID)

	code, _ = suite.do(http.MethodGet, "/v1/orders/424242/confirmation", nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)
}

func (suite *StorefrontTestSuite) TestCheckoutEmptyCart() {
	suite.login()
	suite.fake.ResetCalls()

	code, resp := suite.do(http.MethodPost, "/v1/checkout", nil)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, code)
	require.NotNil(suite.T(), resp.Error)
	assert.Equal(suite.T(), "EMPTY_CART", resp.Error.Code)
	assert.Zero(suite.T(), suite.fake.Calls("POST /pedidos"))
}

func (suite *StorefrontTestSuite) TestLogoutReturnsToGuestCart() {
	suite.login()
	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 3})

	code, _ := suite.do(http.MethodPost, "/v1/auth/logout", nil)
	require.Equal(suite.T(), http.StatusOK, code)

	code, resp := suite.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	var cart models.Cart
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &cart))
	assert.Equal(suite.T(), models.CartModeGuest, cart.Mode)
	assert.Empty(suite.T(), cart.Lines)
}

func (suite *StorefrontTestSuite) TestChangingFilterResetsPage() {
	for i := int64(0); i < 14; i++ {
		for _, brand := range []models.Brand{{ID: 1, Name: "Dior"}, {ID: 2, Name: "Chanel"}} {
			suite.fake.AddProduct(models.Product{
				ID:     100*brand.ID + i,
				Name:   "Aroma",
				Price:  15000,
				Stock:  2,
				Active: true,
				Brand:  brand,
				Gender: models.Gender{ID: 1, Name: "Unisex"},
			})
		}
	}

	tests := []struct {
		query string
		page  int
	}{
		{"marca=1&prev_marca=1&page=2", 2},
		{"marca=2&prev_marca=1&page=3", 1},
		{"marca=1&genero=1&prev_marca=1&prev_genero=0&page=2", 1},
		{"page=2", 2},
	}

	for _, tt := range tests {
		code, resp := suite.do(http.MethodGet, fmt.Sprintf("/v1/catalog?%s", tt.query), nil)
		require.Equal(suite.T(), http.StatusOK, code, tt.query)
		assert.Equal(suite.T(), tt.page, resp.Meta.Pagination.Page, tt.query)
	}
}

func (suite *StorefrontTestSuite) TestInterruptedCheckoutStaysWithItsAccount() {
	bob := models.User{ID: 102, FirstName: "Bob", LastName: "Soto", Email: "bob@example.com", Active: true}
	suite.fake.AddAccount(bob, "secreto1", 2)

	suite.login()
	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 1})
	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 2})
	suite.fake.RejectProduct(2)

	code, _ := suite.do(http.MethodPost, "/v1/checkout", nil)
	require.Equal(suite.T(), http.StatusBadGateway, code)
	require.Len(suite.T(), suite.fake.Orders, 1)
	anaOrder := suite.fake.Orders[0].ID
	suite.fake.AcceptProduct(2)

	code, _ = suite.do(http.MethodPost, "/v1/auth/logout", nil)
	require.Equal(suite.T(), http.StatusOK, code)
	suite.loginAs("bob@example.com")

	code, _ = suite.do(http.MethodPost, "/v1/checkout/resume", nil)
	assert.Equal(suite.T(), http.StatusNotFound, code)

	suite.do(http.MethodPost, "/v1/cart/items", map[string]int64{"product_id": 3})
	code, resp := suite.do(http.MethodPost, "/v1/checkout", nil)
	require.Equal(suite.T(), http.StatusCreated, code, string(resp.Data))

	var placed struct {
		Confirmation models.Confirmation `json:"confirmation"`
	}
	require.NoError(suite.T(), json.Unmarshal(resp.Data, &placed))
	assert.NotEqual(suite.T(), anaOrder, placed.Confirmation.OrderID)
	assert.Equal(suite.T(), 1, placed.Confirmation.Lines)
	assert.Len(suite.T(), suite.fake.OrderLinesFor(anaOrder), 1)
	assert.Empty(suite.T(), suite.fake.ServerCart(2))
	assert.Len(suite.T(), suite.fake.ServerCart(1), 2)
}

func TestStorefrontTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}
