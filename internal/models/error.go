package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("resource not found")

	// ErrBackendRejected wraps the error text of a CRM backend response
	// whose envelope carried success=false.
	ErrBackendRejected = errors.New("backend rejected request")

	// ErrBackendUnavailable marks transport-level failures talking to the
	// CRM backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
