// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/perfume-storefront/internal/i18n"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("rut", validateRUT)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateRUT only checks length, as the registration form does.
// Check digit validation is left to the backend.
func validateRUT(fl validator.FieldLevel) bool {
	rut := strings.TrimSpace(fl.Field().String())
	n := utf8.RuneCountInString(rut)
	return n >= 8 && n <= 10
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error, lang string) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e, lang),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError, lang string) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return i18n.T(lang, i18n.KeyValidationRequired, field)
	case "email":
		return i18n.T(lang, i18n.KeyValidationEmail, field)
	case "min":
		return i18n.T(lang, i18n.KeyValidationTooShort, field, e.Param())
	case "max":
		return i18n.T(lang, i18n.KeyValidationTooLong, field, e.Param())
	case "rut":
		return i18n.T(lang, i18n.KeyValidationRUT, field)
	default:
		return i18n.T(lang, i18n.KeyValidationInvalid, field)
	}
}
