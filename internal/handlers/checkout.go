// internal/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/middleware"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
	logger   *logrus.Logger
}

func NewCheckoutHandler(checkout *services.CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// GET /checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	quote, cart, err := h.checkout.QuoteCart(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"quote": quote,
		"cart":  cart,
	})
}

// POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	confirmation, err := h.checkout.Checkout(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(utils.GetLangFromContext(c), i18n.KeyCheckoutSuccess),
		"confirmation": confirmation,
	})
}

// POST /checkout/resume
func (h *CheckoutHandler) Resume(c *gin.Context) {
	confirmation, err := h.checkout.Resume(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(utils.GetLangFromContext(c), i18n.KeyCheckoutSuccess),
		"confirmation": confirmation,
	})
}

// fail reports checkout errors. An interrupted order carries the saved
// progress so the client can offer to resume it.
func (h *CheckoutHandler) fail(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNoCustomerProfile):
		utils.PreconditionResponse(c, "NO_CUSTOMER_PROFILE", i18n.T(lang, i18n.KeyCheckoutNoCustomer))

	case errors.Is(err, services.ErrCheckoutIncomplete), errors.Is(err, services.ErrCheckoutPending):
		saga, sagaErr := h.checkout.PendingSaga(c.Request.Context(), middleware.SessionFrom(c))
		if sagaErr != nil {
			h.logger.WithError(sagaErr).Warn("Could not load checkout progress")
		}
		status, code := http.StatusBadGateway, "CHECKOUT_INCOMPLETE"
		if errors.Is(err, services.ErrCheckoutPending) {
			status, code = http.StatusConflict, "CHECKOUT_PENDING"
		}
		utils.ErrorResponse(c, status, code, orDefault(backend.MessageOf(err), i18n.T(lang, i18n.KeyCheckoutIncomplete)), saga)

	case backend.StatusOf(err) != 0:
		h.logger.WithError(err).Warn("Checkout failed")
		utils.BadGatewayResponse(c, orDefault(backend.MessageOf(err), i18n.T(lang, i18n.KeyCheckoutFailed)))

	default:
		respondError(c, h.logger, err)
	}
}
