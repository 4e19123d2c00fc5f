// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidHSCode(t *testing.T) {
	valid := []string{"09", "0902", "090210"}
	for _, code := range valid {
		assert.True(t, IsValidHSCode(code), code)
	}

	invalid := []string{"", "9", "090", "09021", "0902101", "09ab", "tea"}
	for _, code := range invalid {
		assert.False(t, IsValidHSCode(code), code)
	}
}

func TestStrongPasswordValidation(t *testing.T) {
	type req struct {
		Password string `validate:"strong_password"`
	}

	assert.NoError(t, ValidateStruct(&req{Password: "Str0ng!Pass"}))
	assert.Error(t, ValidateStruct(&req{Password: "short1!"}))
	assert.Error(t, ValidateStruct(&req{Password: "alllowercase1!"}))
	assert.Error(t, ValidateStruct(&req{Password: "NoNumbers!!"}))
	assert.Error(t, ValidateStruct(&req{Password: "NoSpecial123"}))
}

func TestUsernameValidation(t *testing.T) {
	type req struct {
		Username string `validate:"username"`
	}

	assert.NoError(t, ValidateStruct(&req{Username: "trade_user42"}))
	assert.Error(t, ValidateStruct(&req{Username: "ab"}))
	assert.Error(t, ValidateStruct(&req{Username: "has spaces"}))
	assert.Error(t, ValidateStruct(&req{Username: "bad-dash"}))
}

func TestGetValidationErrors(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	err := ValidateStruct(&req{Email: "not-an-email"})
	assert.Error(t, err)

	errors := GetValidationErrors(err)
	assert.Len(t, errors, 2)

	fields := map[string]bool{}
	for _, e := range errors {
		fields[e.Field] = true
		assert.NotEmpty(t, e.Message)
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["name"])
}
