package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Creation(t *testing.T) {
	err := NewValidationError("quantity out of range")

	assert.NotNil(t, err)
	assert.Equal(t, "quantity out of range", err.Message)
	assert.Equal(t, "quantity out of range", err.Error())
}

func TestValidationError_IsValidationError(t *testing.T) {
	err := NewValidationError("bad input")

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.NotNil(t, ve)

	_, ok = IsValidationError(errors.New("other"))
	assert.False(t, ok)
}

func TestGatewayError_Unwrap(t *testing.T) {
	cause := errors.New("http 404")
	err := NewGatewayError(GatewaySheetNotFound, "opening orders sheet", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "http 404")
}

func TestGatewayError_UserMessage_DistinctPerKind(t *testing.T) {
	notFound := NewGatewayError(GatewaySheetNotFound, "x", nil).UserMessage()
	access := NewGatewayError(GatewayAccessDenied, "x", nil).UserMessage()
	unknown := NewGatewayError(GatewayUnknown, "x", nil).UserMessage()

	assert.NotEqual(t, notFound, access)
	assert.NotEqual(t, notFound, unknown)
	assert.NotEqual(t, access, unknown)
}

func TestGatewayError_IsGatewayError(t *testing.T) {
	err := NewGatewayError(GatewayUnknown, "boom", nil)

	ge, ok := IsGatewayError(err)
	assert.True(t, ok)
	assert.Equal(t, GatewayUnknown, ge.Kind)

	_, ok = IsGatewayError(errors.New("other"))
	assert.False(t, ok)
}

func TestPermissionError(t *testing.T) {
	var err error = NewPermissionError("admins only")

	pe, ok := IsPermissionError(err)
	assert.True(t, ok)
	assert.Equal(t, "admins only", pe.Error())
}
