package tenancy

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodesStable(t *testing.T) {
	assert.Equal(t, "connection_failed", ErrConnection.Code)
	assert.Equal(t, "schema_failed", ErrSchema.Code)
	assert.Equal(t, "duplicate_tenant", ErrDuplicateTenant.Code)
	assert.Equal(t, "tenant_not_found", ErrTenantNotFound.Code)
	assert.Equal(t, "tenant_suspended", ErrTenantSuspended.Code)
	assert.Equal(t, "provisioning_incomplete", ErrProvisioningIncomplete.Code)
}

func TestWrapKeepsSentinelMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrap(ErrConnection, cause)

	assert.True(t, errors.Is(err, ErrConnection))
	assert.False(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, CodeConnectionFailed, CodeOf(err))
}

func TestWrapNilCause(t *testing.T) {
	assert.Equal(t, error(ErrSchema), wrap(ErrSchema, nil))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrDuplicateTenant, http.StatusConflict},
		{ErrTenantNotFound, http.StatusNotFound},
		{ErrTenantSuspended, http.StatusForbidden},
		{ErrConnection, http.StatusInternalServerError},
		{ErrSchema, http.StatusInternalServerError},
		{ErrProvisioningIncomplete, http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}

func TestNestedWrapStillMatches(t *testing.T) {
	inner := wrap(ErrSchema, errors.New("column type conflict"))
	outer := wrap(ErrProvisioningIncomplete, inner)

	assert.True(t, errors.Is(outer, ErrProvisioningIncomplete))
	assert.Equal(t, CodeProvisioningIncomplete, CodeOf(outer))
}

func TestWrapFormatsAsError(t *testing.T) {
	err := fmt.Errorf("request failed: %w", wrap(ErrTenantSuspended, nil))
	assert.True(t, errors.Is(err, ErrTenantSuspended))
}
