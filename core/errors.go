package core

import "errors"

// Authentication related errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")            // 404 Not Found
	ErrEmailTaken         = errors.New("email already registered")  // 409 Conflict
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
)

// Session and key-value errors
var (
	ErrKeyNotFound       = errors.New("key not found in store")
	ErrSessionMalformed  = errors.New("session record failed validation")
	ErrStoreUnavailable  = errors.New("backing store unavailable")
	ErrRateLimitExceeded = errors.New("too many attempts") // 429
)

// OAuth errors
var (
	ErrMissingCode     = errors.New("authorization code is required")
	ErrTokenExchange   = errors.New("token exchange failed")
	ErrProfileFetch    = errors.New("profile fetch failed")
	ErrGoogleNotConfig = errors.New("google provider is not configured")
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required")  // 500
	ErrKVAdapterRequired   = errors.New("key-value adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")      // 500
)
