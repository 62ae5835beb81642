// internal/services/errors.go
package services

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNoCustomerProfile    = errors.New("authenticated user has no customer profile")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserLookupFailed     = errors.New("user lookup failed")
	ErrValidation           = errors.New("validation failed")
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSyncIncomplete       = errors.New("guest cart sync incomplete")
	ErrMissingOrderID       = errors.New("order id missing from backend response")
	ErrCheckoutIncomplete   = errors.New("checkout incomplete")
	ErrCheckoutPending      = errors.New("a previous checkout is incomplete")
	ErrNoPendingCheckout    = errors.New("no pending checkout to resume")
	ErrOrderNotFound        = errors.New("order not found")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrDeleteFailed         = errors.New("could not delete")
	ErrPasswordRequired     = errors.New("password is required for new users")
	ErrInvalidUpload        = errors.New("invalid upload")
)
