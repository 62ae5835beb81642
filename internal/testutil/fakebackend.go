// internal/testutil/fakebackend.go
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/javajoker/perfume-storefront/internal/models"
)

const fakeSigningKey = "fake-backend-signing-key"

// FakeBackend is an in-memory stand-in for the storefront REST API.
// Routes are counted by "METHOD /path/:param" as registered.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	calls       map[string]int
	authHeaders map[string]string
	failing     map[string]int
	rejected    map[int64]bool
	nextID      int64

	Products     []models.Product
	Brands       []models.Brand
	Categories   []models.Category
	ProductTypes []models.ProductType
	Genders      []models.Gender
	Roles        []models.Role
	Users        []models.User
	Customers    []models.Customer
	CartLines    map[int64][]models.CartLine
	Orders       []models.Order
	OrderLines   []models.OrderLinePayload
	Passwords    map[string]string
	TokenRoles   map[string][]string

	// LegacyOrderID makes POST /pedidos answer with idPedido instead of id.
	LegacyOrderID bool
	// OmitOrderID makes POST /pedidos answer without any id.
	OmitOrderID bool
}

func NewFakeBackend(t testing.TB) *FakeBackend {
	gin.SetMode(gin.TestMode)

	f := &FakeBackend{
		calls:       make(map[string]int),
		authHeaders: make(map[string]string),
		failing:     make(map[string]int),
		rejected:    make(map[int64]bool),
		nextID:      1000,
		CartLines:   make(map[int64][]models.CartLine),
		Passwords:   make(map[string]string),
		TokenRoles:  make(map[string][]string),
	}

	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to configure the client with.
func (f *FakeBackend) URL() string {
	return f.Server.URL + "/api"
}

func (f *FakeBackend) routes() *gin.Engine {
	r := gin.New()
	r.Use(f.record)

	api := r.Group("/api")
	{
		api.POST("/auth/login", f.login)

		api.GET("/productos", f.listProducts)
		api.GET("/productos/:id", f.getProduct)
		api.POST("/productos", f.saveProduct)
		api.PUT("/productos/:id", f.saveProduct)
		api.DELETE("/productos/:id", f.deleteProduct)

		api.GET("/marcas", func(c *gin.Context) { f.list(c, f.Brands) })
		api.GET("/categorias", func(c *gin.Context) { f.list(c, f.Categories) })
		api.GET("/tipos-producto", func(c *gin.Context) { f.list(c, f.ProductTypes) })
		api.GET("/generos", func(c *gin.Context) { f.list(c, f.Genders) })
		api.GET("/roles", func(c *gin.Context) { f.list(c, f.Roles) })

		api.GET("/usuarios", func(c *gin.Context) { f.list(c, f.Users) })
		api.POST("/usuarios", f.saveUser)
		api.PUT("/usuarios/:id", f.saveUser)
		api.DELETE("/usuarios/:id", f.deleteUser)

		api.GET("/clientes", func(c *gin.Context) { f.list(c, f.Customers) })
		api.POST("/clientes", f.createCustomer)

		api.GET("/carrito/cliente/:customerId", f.listCart)
		api.POST("/carrito", f.addCartLine)
		api.DELETE("/carrito/:id", f.deleteCartLine)
		api.DELETE("/carrito/cliente/:customerId", f.clearCart)

		api.GET("/pedidos", func(c *gin.Context) { f.list(c, f.Orders) })
		api.GET("/pedidos/:id", f.getOrder)
		api.POST("/pedidos", f.createOrder)
		api.POST("/detalles-pedido", f.createOrderLine)
	}

	return r
}

func (f *FakeBackend) record(c *gin.Context) {
	route := c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), "/api")

	f.mu.Lock()
	f.calls[route]++
	f.authHeaders[route] = c.GetHeader("Authorization")
	remaining := f.failing[route]
	if remaining > 0 {
		f.failing[route] = remaining - 1
	}
	f.mu.Unlock()

	if remaining > 0 {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"mensaje": "error forzado en " + route})
		return
	}
	c.Next()
}

// Calls returns how many times route was hit, e.g. "POST /carrito".
func (f *FakeBackend) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *FakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeBackend) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

// AuthHeader returns the Authorization header last seen on route.
func (f *FakeBackend) AuthHeader(route string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authHeaders[route]
}

// FailNext makes the next n requests to route answer 500.
func (f *FakeBackend) FailNext(route string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[route] = n
}

// RejectProduct makes cart and order line posts for productID fail until AcceptProduct.
func (f *FakeBackend) RejectProduct(productID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[productID] = true
}

func (f *FakeBackend) AcceptProduct(productID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rejected, productID)
}

func (f *FakeBackend) AddProduct(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Products = append(f.Products, p)
}

// AddAccount registers a user and, when customerID is non-zero, its customer profile.
func (f *FakeBackend) AddAccount(user models.User, password string, customerID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Users = append(f.Users, user)
	f.Passwords[user.Email] = password
	if customerID != 0 {
		u := user
		f.Customers = append(f.Customers, models.Customer{ID: customerID, User: &u})
	}
}

func (f *FakeBackend) ServerCart(customerID int64) []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartLine(nil), f.CartLines[customerID]...)
}

// IssueToken signs a token the way the backend does.
func IssueToken(subject string, roles []string, expiresAt time.Time) string {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(fakeSigningKey))
	if err != nil {
		panic(err)
	}
	return token
}

func (f *FakeBackend) list(c *gin.Context, items interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (f *FakeBackend) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	password, found := f.Passwords[req.Email]
	roles := f.TokenRoles[req.Email]
	f.mu.Unlock()

	if !found || password != req.Password {
		c.JSON(http.StatusUnauthorized, models.LoginResponse{
			Message:       "Credenciales inválidas",
			Authenticated: false,
		})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Message:       "Login exitoso",
		Username:      req.Email,
		Authenticated: true,
		Token:         IssueToken(req.Email, roles, time.Now().Add(time.Hour)),
	})
}

func (f *FakeBackend) listProducts(c *gin.Context) {
	f.list(c, f.Products)
}

func (f *FakeBackend) getProduct(c *gin.Context) {
	id := paramID(c, "id")

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Products {
		if p.ID == id {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "Producto no encontrado"})
}

func (f *FakeBackend) saveProduct(c *gin.Context) {
	var payload models.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	product := models.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		VolumeML:    payload.VolumeML,
		ImageURL:    payload.ImageURL,
		Active:      payload.Active,
		Brand:       models.Brand{ID: payload.Brand.ID},
		Category:    models.Category{ID: payload.Category.ID},
		Type:        models.ProductType{ID: payload.Type.ID},
		Gender:      models.Gender{ID: payload.Gender.ID},
	}

	if c.Request.Method == http.MethodPut {
		product.ID = paramID(c, "id")
		for i := range f.Products {
			if f.Products[i].ID == product.ID {
				f.Products[i] = product
				c.JSON(http.StatusOK, product)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "Producto no encontrado"})
		return
	}

	product.ID = f.newID()
	f.Products = append(f.Products, product)
	c.JSON(http.StatusCreated, product)
}

func (f *FakeBackend) deleteProduct(c *gin.Context) {
	id := paramID(c, "id")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, line := range f.OrderLines {
		if line.Product.ID == id {
			c.JSON(http.StatusConflict, gin.H{"mensaje": "El producto tiene pedidos asociados"})
			return
		}
	}
	for i := range f.Products {
		if f.Products[i].ID == id {
			f.Products = append(f.Products[:i], f.Products[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "Producto no encontrado"})
}

func (f *FakeBackend) saveUser(c *gin.Context) {
	var payload models.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user := models.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Active:    payload.Active,
		Password:  payload.Password,
	}
	for _, ref := range payload.Roles {
		for _, role := range f.Roles {
			if role.ID == ref.ID {
				user.Roles = append(user.Roles, role)
			}
		}
	}

	if c.Request.Method == http.MethodPut {
		user.ID = paramID(c, "id")
		for i := range f.Users {
			if f.Users[i].ID == user.ID {
				f.Users[i] = user
				f.Passwords[user.Email] = user.Password
				c.JSON(http.StatusOK, user)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "Usuario no encontrado"})
		return
	}

	user.ID = f.newID()
	f.Users = append(f.Users, user)
	f.Passwords[user.Email] = user.Password
	c.JSON(http.StatusCreated, user)
}

func (f *FakeBackend) deleteUser(c *gin.Context) {
	id := paramID(c, "id")

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.Users {
		if f.Users[i].ID == id {
			f.Users = append(f.Users[:i], f.Users[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "Usuario no encontrado"})
}

func (f *FakeBackend) createCustomer(c *gin.Context) {
	var payload models.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.Users {
		if u.Email == payload.User.Email {
			c.JSON(http.StatusConflict, gin.H{"mensaje": "El correo ya está registrado"})
			return
		}
	}

	user := models.User{
		ID:        f.newID(),
		FirstName: payload.User.FirstName,
		LastName:  payload.User.LastName,
		Email:     payload.User.Email,
		Active:    payload.User.Active,
	}
	customer := models.Customer{
		ID:        f.newID(),
		RUT:       payload.RUT,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		BirthDate: payload.BirthDate,
		Phone:     payload.Phone,
		Address:   payload.Address,
		Commune:   payload.Commune,
		Region:    payload.Region,
		User:      &user,
	}
	f.Users = append(f.Users, user)
	f.Passwords[user.Email] = payload.User.Password
	f.Customers = append(f.Customers, customer)
	c.JSON(http.StatusCreated, customer)
}

func (f *FakeBackend) listCart(c *gin.Context) {
	customerID := paramID(c, "customerId")

	f.mu.Lock()
	defer f.mu.Unlock()

	lines := f.CartLines[customerID]
	if lines == nil {
		lines = []models.CartLine{}
	}
	c.JSON(http.StatusOK, lines)
}

func (f *FakeBackend) addCartLine(c *gin.Context) {
	var payload models.CartLinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejected[payload.Product.ID] {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": fmt.Sprintf("No se pudo agregar el producto %d", payload.Product.ID)})
		return
	}

	product := models.Product{ID: payload.Product.ID}
	for _, p := range f.Products {
		if p.ID == payload.Product.ID {
			product = p
		}
	}

	line := models.CartLine{ID: f.newID(), Quantity: payload.Quantity, Product: product}
	f.CartLines[payload.Customer.ID] = append(f.CartLines[payload.Customer.ID], line)
	c.JSON(http.StatusCreated, line)
}

func (f *FakeBackend) deleteCartLine(c *gin.Context) {
	id := paramID(c, "id")

	f.mu.Lock()
	defer f.mu.Unlock()

	for customerID, lines := range f.CartLines {
		for i := range lines {
			if lines[i].ID == id {
				f.CartLines[customerID] = append(lines[:i], lines[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "Item no encontrado"})
}

func (f *FakeBackend) clearCart(c *gin.Context) {
	customerID := paramID(c, "customerId")

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.CartLines, customerID)
	c.Status(http.StatusNoContent)
}

func (f *FakeBackend) getOrder(c *gin.Context) {
	id := paramID(c, "id")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.Orders {
		if o.Number() == id {
			c.JSON(http.StatusOK, o)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"mensaje": "Pedido no encontrado"})
}

func (f *FakeBackend) createOrder(c *gin.Context) {
	var payload models.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	order := models.Order{
		Customer:        &models.Customer{ID: payload.Customer.ID},
		Date:            payload.Date,
		Subtotal:        payload.Subtotal,
		Discount:        payload.Discount,
		Tax:             payload.Tax,
		Total:           payload.Total,
		Status:          payload.Status,
		ShippingAddress: payload.ShippingAddress,
		ShippingCommune: payload.ShippingCommune,
		ShippingRegion:  payload.ShippingRegion,
		TrackingNumber:  payload.TrackingNumber,
	}
	id := f.newID()
	if f.LegacyOrderID {
		order.OrderID = id
	} else {
		order.ID = id
	}
	f.Orders = append(f.Orders, order)

	if f.OmitOrderID {
		response := order
		response.ID, response.OrderID = 0, 0
		c.JSON(http.StatusCreated, response)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (f *FakeBackend) createOrderLine(c *gin.Context) {
	var payload models.OrderLinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejected[payload.Product.ID] {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": fmt.Sprintf("Sin stock para el producto %d", payload.Product.ID)})
		return
	}

	f.OrderLines = append(f.OrderLines, payload)
	for i := range f.Orders {
		if f.Orders[i].Number() == payload.Order.ID {
			f.Orders[i].Lines = append(f.Orders[i].Lines, models.OrderLine{
				ID:        f.newID(),
				Order:     &models.IDRef{ID: payload.Order.ID},
				Product:   &models.ProductRef{ID: payload.Product.ID},
				Quantity:  payload.Quantity,
				UnitPrice: payload.UnitPrice,
				Subtotal:  payload.Subtotal,
			})
		}
	}
	c.JSON(http.StatusCreated, payload)
}

// OrderLinesFor returns the posted lines of orderID.
func (f *FakeBackend) OrderLinesFor(orderID int64) []models.OrderLinePayload {
	f.mu.Lock()
	defer f.mu.Unlock()

	var lines []models.OrderLinePayload
	for _, line := range f.OrderLines {
		if line.Order.ID == orderID {
			lines = append(lines, line)
		}
	}
	return lines
}

func (f *FakeBackend) newID() int64 {
	f.nextID++
	return f.nextID
}

func paramID(c *gin.Context, name string) int64 {
	id, _ := strconv.ParseInt(c.Param(name), 10, 64)
	return id
}
