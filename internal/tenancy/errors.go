package tenancy

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine codes for every failure the core can produce. Clients
// branch on these instead of parsing message text.
const (
	CodeConnectionFailed       = "connection_failed"
	CodeSchemaFailed           = "schema_failed"
	CodeDuplicateTenant        = "duplicate_tenant"
	CodeTenantNotFound         = "tenant_not_found"
	CodeTenantSuspended        = "tenant_suspended"
	CodeProvisioningIncomplete = "provisioning_incomplete"
)

// Sentinel errors for the tenancy core. Wrapped errors stay matchable
// with errors.Is.
var (
	// ErrConnection means the engine was unreachable or refused the
	// connection. Never retried at this layer.
	ErrConnection = &Error{Code: CodeConnectionFailed, Message: "database connection failed"}

	// ErrSchema means a DDL statement was rejected during registration.
	// A partially registered schema is failed as a whole.
	ErrSchema = &Error{Code: CodeSchemaFailed, Message: "schema registration failed"}

	// ErrDuplicateTenant means the subdomain is already registered.
	ErrDuplicateTenant = &Error{Code: CodeDuplicateTenant, Message: "subdomain already registered"}

	// ErrTenantNotFound means no directory record matched the key.
	ErrTenantNotFound = &Error{Code: CodeTenantNotFound, Message: "tenant not found"}

	// ErrTenantSuspended means the record exists but is inactive, so
	// the client can show a suspension message rather than a generic
	// auth failure.
	ErrTenantSuspended = &Error{Code: CodeTenantSuspended, Message: "tenant account is suspended"}

	// ErrProvisioningIncomplete means the directory record was created
	// but the tenant database never became usable. Requires operator
	// attention; must not be silently swallowed.
	ErrProvisioningIncomplete = &Error{Code: CodeProvisioningIncomplete, Message: "tenant provisioning incomplete"}
)

// Error is a tenancy failure with a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes every wrapped instance match its sentinel by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// wrap attaches cause detail to a sentinel while keeping errors.Is
// matching intact.
func wrap(sentinel *Error, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %v", sentinel, cause)
}

// CodeOf extracts the stable code from err, or empty when err is not a
// tenancy error.
func CodeOf(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// HTTPStatus maps a tenancy error to the status the HTTP surface
// should answer with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateTenant):
		return http.StatusConflict
	case errors.Is(err, ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTenantSuspended):
		return http.StatusForbidden
	case errors.Is(err, ErrConnection),
		errors.Is(err, ErrSchema),
		errors.Is(err, ErrProvisioningIncomplete):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
