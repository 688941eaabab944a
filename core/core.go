package core

import (
	"log/slog"

	"github.com/jrlim/moat/crypto"
)

// Moat composes the password hasher, session store, rate limiter, and
// repositories into the authentication flows. All backing store handles
// are injected; there are no ambient singletons.
type Moat struct {
	Database Storage
	Sessions *SessionStore
	Limiter  *RateLimiter
	Hasher   crypto.PasswordHandler
	Google   *GoogleProvider // nil disables the federated flow
	Logger   *slog.Logger
}
