// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationForm struct {
	RUT      string `validate:"required,rut"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidateRUTLength(t *testing.T) {
	valid := registrationForm{RUT: "12345678-9", Email: "ana@perfumes.cl", Password: "secreto"}
	assert.NoError(t, ValidateStruct(valid))

	short := valid
	short.RUT = "1234567"
	assert.Error(t, ValidateStruct(short))

	long := valid
	long.RUT = "12.345.678-9"
	assert.Error(t, ValidateStruct(long))
}

func TestGetValidationErrors(t *testing.T) {
	form := registrationForm{RUT: "1", Email: "no-es-correo", Password: "123"}

	errs := GetValidationErrors(ValidateStruct(form), "en")
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "rut", byField["rut"].Tag)
	assert.Equal(t, "email", byField["email"].Tag)
	assert.Equal(t, "min", byField["password"].Tag)
}
