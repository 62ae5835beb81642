// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyNotFound      = "not_found"
	KeyInternalError = "internal_error"
	KeyRateLimited   = "rate_limited"
	KeyBackendError  = "backend_error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserLookupFailed   = "auth.user_lookup_failed"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthRegisterFailed     = "auth.register_failed"
	KeyAuthSessionLoading     = "auth.session_loading"

	// Cart
	KeyCartItemAdded      = "cart.item_added"
	KeyCartItemRemoved    = "cart.item_removed"
	KeyCartCleared        = "cart.cleared"
	KeyCartEmpty          = "cart.empty"
	KeyCartNoProfile      = "cart.no_profile"
	KeyCartSynced         = "cart.synced"
	KeyCartSyncIncomplete = "cart.sync_incomplete"
	KeyCartLineNotFound   = "cart.line_not_found"

	// Checkout
	KeyCheckoutSuccess     = "checkout.success"
	KeyCheckoutFailed      = "checkout.failed"
	KeyCheckoutNoCustomer  = "checkout.no_customer"
	KeyCheckoutIncomplete  = "checkout.incomplete"
	KeyCheckoutNothingToDo = "checkout.nothing_to_resume"
	KeyCheckoutMissingID   = "checkout.missing_order_id"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"
	KeyProductAdd        = "product.add"
	KeyProductSoldOut    = "product.sold_out"

	// Users
	KeyUserCreated          = "user.created"
	KeyUserUpdated          = "user.updated"
	KeyUserDeleted          = "user.deleted"
	KeyUserPasswordRequired = "user.password_required"

	// Orders
	KeyOrderNotFound = "order.not_found"

	// Admin
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminConfirmRequired = "admin.confirm_required"
	KeyAdminDeleteFailed    = "admin.delete_failed"

	// Validation
	KeyValidationFailed   = "validation.failed"
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationRUT      = "validation.invalid_rut"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
