package domain

import "errors"

var (
	// ErrInvalidInput marks a malformed or out-of-domain behavioral profile.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelNotReady is returned when model artifacts are still missing after a reload attempt.
	ErrModelNotReady = errors.New("model not ready")
	// ErrCatalogUnavailable wraps failures of the external product lookup.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInternalCompute marks unexpected failures while scoring or explaining.
	ErrInternalCompute = errors.New("internal compute error")
	ErrClusterNotFound = errors.New("cluster not found")

	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
