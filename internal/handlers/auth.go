// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/middleware"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

type AuthHandler struct {
	sessions *services.SessionService
	carts    *services.CartService
	logger   *logrus.Logger
}

func NewAuthHandler(sessions *services.SessionService, carts *services.CartService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		carts:    carts,
		logger:   logger,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.sessions.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondError(c, h.logger, err)
			return
		}
		h.logger.WithError(err).Warn("Registration failed")
		utils.BadRequestResponse(c, orDefault(backend.MessageOf(err), i18n.T(lang, i18n.KeyAuthRegisterFailed)), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"customer": customer,
	})
}

// POST /auth/login
// A guest cart left on this browser moves to the customer's cart right after login.
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	visitorID, _ := utils.GetVisitorIDFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), visitorID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess, session.User.FirstName),
		"session": session,
	}

	sync, err := h.carts.AttachSession(c.Request.Context(), session)
	switch {
	case err != nil && !errors.Is(err, services.ErrSyncIncomplete):
		// Login itself succeeded; the cart can be attached on a later request.
		h.logger.WithError(err).WithField("visitor_id", visitorID).Warn("Could not attach cart after login")
	case err != nil:
		response["warning"] = i18n.T(lang, i18n.KeyCartSyncIncomplete)
		response["sync"] = sync
	case sync != nil:
		response["sync"] = sync
	}

	utils.SuccessResponse(c, response)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	visitorID, _ := utils.GetVisitorIDFromContext(c)

	if err := h.sessions.Logout(c.Request.Context(), visitorID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthLogoutSuccess),
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)

	mode, _, err := h.carts.Binding(c.Request.Context(), session)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"authenticated": session.Authenticated(),
		"session":       session,
		"cart_mode":     mode,
	})
}
