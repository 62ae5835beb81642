// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/middleware"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type OrderHandler struct {
	orders *services.OrderService
	logger *logrus.Logger
}

func NewOrderHandler(orders *services.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.MyOrders(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, orders)
}

// GET /orders/:id/confirmation
func (h *OrderHandler) Confirmation(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Order(c.Request.Context(), middleware.SessionFrom(c), orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, order)
}
