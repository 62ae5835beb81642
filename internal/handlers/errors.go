// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/backend"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/services"
	"github.com/javajoker/perfume-storefront/internal/utils"
)

// respondError maps service errors onto the response envelope. Backend
// messages are passed through when the backend sent one.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	lang := utils.GetLangFromContext(c)
	message := backend.MessageOf(err)

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs, lang))
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, "", nil)

	case errors.Is(err, services.ErrNotAuthenticated):
		utils.UnauthorizedResponse(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, orDefault(message, i18n.T(lang, i18n.KeyAuthInvalidCredentials)))
	case errors.Is(err, services.ErrUserLookupFailed):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyAuthUserLookupFailed))

	case errors.Is(err, services.ErrNoCustomerProfile):
		utils.PreconditionResponse(c, "NO_CUSTOMER_PROFILE", i18n.T(lang, i18n.KeyCartNoProfile))
	case errors.Is(err, services.ErrEmptyCart):
		utils.PreconditionResponse(c, "EMPTY_CART", i18n.T(lang, i18n.KeyCartEmpty))
	case errors.Is(err, services.ErrOutOfStock):
		utils.PreconditionResponse(c, "OUT_OF_STOCK", i18n.T(lang, i18n.KeyProductOutOfStock))

	case errors.Is(err, services.ErrCheckoutPending):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCheckoutIncomplete))
	case errors.Is(err, services.ErrNoPendingCheckout):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyCheckoutNothingToDo), nil)
	case errors.Is(err, services.ErrCheckoutIncomplete):
		utils.ErrorResponse(c, http.StatusBadGateway, "CHECKOUT_INCOMPLETE",
			orDefault(message, i18n.T(lang, i18n.KeyCheckoutIncomplete)), nil)
	case errors.Is(err, services.ErrMissingOrderID):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyCheckoutMissingID))
	case errors.Is(err, services.ErrSyncIncomplete):
		utils.ErrorResponse(c, http.StatusBadGateway, "SYNC_INCOMPLETE", i18n.T(lang, i18n.KeyCartSyncIncomplete), nil)

	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, "order")
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.ErrorResponse(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", i18n.T(lang, i18n.KeyAdminConfirmRequired), nil)
	case errors.Is(err, services.ErrDeleteFailed):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAdminDeleteFailed))
	case errors.Is(err, services.ErrPasswordRequired):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUserPasswordRequired), nil)
	case errors.Is(err, services.ErrInvalidUpload):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())

	case backend.IsNotFound(err):
		utils.NotFoundResponse(c, "")
	case backend.StatusOf(err) != 0:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("Backend call failed")
		utils.BadGatewayResponse(c, message)

	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
