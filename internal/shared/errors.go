package shared

import "fmt"

// Sentinel errors wrapped by the service, engine and command layers.
// Callers match them with errors.Is rather than string comparison.

// Configuration and credential errors.
var (
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)

// Authentication errors.
var (
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
)

// Platform and generation errors.
var (
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrProjectNotFound    = fmt.Errorf("project not found")
	ErrTaskNotFound       = fmt.Errorf("generation task not found")
	ErrTimeout            = fmt.Errorf("operation timed out")
)

// Input validation errors.
var (
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

var ErrNotImplemented = fmt.Errorf("not implemented")
