package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidateRequiredWithout(t *testing.T) {
	err := Validate(&loginForm{Password: "pw"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields, "Username")
	assert.Contains(t, fields, "Email")
}

func TestValidatePassesWithEitherIdentifier(t *testing.T) {
	assert.NoError(t, Validate(&loginForm{Username: "alice", Password: "pw"}))
	assert.NoError(t, Validate(&loginForm{Email: "alice@example.com", Password: "pw"}))
}

func TestValidateRejectsBadEmail(t *testing.T) {
	err := Validate(&loginForm{Email: "not-an-email", Password: "pw"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"alice","password":"pw"}`))

	var form loginForm
	require.NoError(t, DecodeAndValidate(r, &form))
	assert.Equal(t, "alice", form.Username)
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":`))

	var form loginForm
	err := DecodeAndValidate(r, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
