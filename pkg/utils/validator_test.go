package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
}

func TestGetValidationErrorsUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Email: "nope", Password: "short", Confirm: "x"})
	require.Error(t, err)

	details := GetValidationErrors(err)
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Equal(t, "must be at least 8 characters", details["password"])
	assert.Contains(t, details, "confirmPassword")
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Email: "a@b.co", Password: "longenough", Confirm: "longenough"})
	assert.NoError(t, err)
	assert.Empty(t, GetValidationErrors(nil))
}
