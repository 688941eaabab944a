package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (relational operations)
// ============================================

// UserStorage defines user-related database operations.
type UserStorage interface {
	// CreateUser inserts u and fills in its generated ID and timestamps.
	// Returns ErrEmailTaken when the email uniqueness constraint fires.
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser patches the mutable profile fields only. Salt, hash,
	// and role are never touched through this path.
	UpdateUser(ctx context.Context, userID string, patch UserPatch) (*User, error)
}

// AccountStorage defines account-related database operations.
type AccountStorage interface {
	// CreateAccount inserts a and fills in its generated ID and
	// timestamps. The row ID is always repository-generated.
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountsByUser(ctx context.Context, userID string) ([]*Account, error)
}

// Storage combines the relational ports a backend adapter implements.
type Storage interface {
	UserStorage
	AccountStorage
}

// ============================================
// KEY-VALUE PORT
// ============================================

// KeyValue is the expiring key-value backend contract shared by the
// session store and the rate limiter. Incr and Expire must be atomic
// primitives of the backing store, not read-modify-write emulations.
type KeyValue interface {
	// Get returns the value at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value at key with the given TTL, overwriting any
	// existing record.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr atomically increments the integer at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Del removes key; deleting a missing key is not an error.
	Del(ctx context.Context, key string) error
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides the authentication flows for HTTP adapters.
// Every entry point is a leaf consumer of these operations.
type AuthHandler interface {
	SignUp(ctx context.Context, input SignUpInput, clientAddr string) Outcome
	SignIn(ctx context.Context, input SignInInput, clientAddr string) Outcome
	SignOut(ctx context.Context, sessionID string) Outcome
	GoogleCallback(ctx context.Context, code, clientAddr string) Outcome
	// GetSession resolves a session cookie value into the session and
	// its user. A nil result means unauthenticated; the adapter should
	// clear the cookie in that case.
	GetSession(ctx context.Context, sessionID string) (*SessionUser, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(m *Moat) error
}
