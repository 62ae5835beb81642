// internal/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/middleware"
	"github.com/javajoker/perfume-storefront/internal/models"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type CartHandler struct {
	carts   *services.CartService
	catalog *services.CatalogService
	logger  *logrus.Logger
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

func NewCartHandler(carts *services.CartService, catalog *services.CatalogService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.Cart(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), req.ProductID)
	if backend.IsNotFound(err) {
		utils.NotFoundResponse(c, "product")
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cart, err := h.carts.AddToCart(c.Request.Context(), middleware.SessionFrom(c), product)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    cart,
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lineID, ok := paramID(c, "id")
	if !ok {
		return
	}

	cart, err := h.carts.RemoveFromCart(c.Request.Context(), middleware.SessionFrom(c), lineID)
	if backend.IsNotFound(err) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(utils.GetLangFromContext(c), i18n.KeyCartLineNotFound), nil)
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCartItemRemoved),
		"cart":    cart,
	})
}

// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.carts.ClearCart(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCartCleared),
		"cart":    cart,
	})
}

// POST /cart/sync
// Retries moving whatever is left of the guest cart to the customer's cart.
func (h *CartHandler) Sync(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	session := middleware.SessionFrom(c)

	mode, customerID, err := h.carts.Binding(c.Request.Context(), session)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if mode != models.CartModeBound {
		respondError(c, h.logger, services.ErrNoCustomerProfile)
		return
	}

	result, err := h.carts.SyncGuestCart(c.Request.Context(), session, customerID)
	if errors.Is(err, services.ErrSyncIncomplete) {
		utils.ErrorResponse(c, http.StatusBadGateway, "SYNC_INCOMPLETE", i18n.T(lang, i18n.KeyCartSyncIncomplete), result)
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartSynced),
		"sync":    result,
	})
}
