// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/handlers"
	"github.com/javajoker/perfume-storefront/internal/middleware"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/storage"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

func Initialize(cfg *config.Config, store storage.Store, logger *logrus.Logger) (*gin.Engine, error) {
	// Initialize services
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout(), storage.TokenSource(store), logger)

	sessionService := services.NewSessionService(client, store, cfg, logger)
	cartService := services.NewCartService(client, store, sessionService, logger)
	catalogService := services.NewCatalogService(client, cfg)
	adminService := services.NewAdminService(client, logger)

	checkoutService, err := services.NewCheckoutService(client, store, sessionService, cartService, cfg, logger)
	if err != nil {
		return nil, err
	}
	orderService, err := services.NewOrderService(client, sessionService, cfg)
	if err != nil {
		return nil, err
	}
	storageService, err := services.NewStorageService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessionService, cartService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, cfg.Catalog.PageSize, logger)
	cartHandler := handlers.NewCartHandler(cartService, catalogService, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	adminHandler := handlers.NewAdminHandler(adminService, storageService, logger)

	generalLimiter := middleware.PerSecond(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(&cfg.Frontend))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"version":      "1.0.0",
			"state_driver": cfg.State.Driver,
		})
	})

	if dir := storageService.LocalDir(); dir != "" {
		r.Static("/uploads", dir)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "")
	})

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.Visitor(&cfg.State))
	v1.Use(middleware.Session(sessionService, logger))
	{
		v1.GET("/home", catalogHandler.Home)
		v1.GET("/catalog", catalogHandler.Catalog)
		v1.GET("/catalog/search", catalogHandler.Search)

		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		// Cart routes work for guests and customers alike
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.POST("/sync", middleware.AuthRequired(), cartHandler.Sync)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthRequired())
		{
			checkout.GET("/quote", checkoutHandler.Quote)
			checkout.POST("", checkoutHandler.Checkout)
			checkout.POST("/resume", checkoutHandler.Resume)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id/confirmation", orderHandler.Confirmation)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/products", adminHandler.GetProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/images", adminHandler.UploadImage)

			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	return r, nil
}
