// Package moat is a session-and-credential authentication core:
// password sign-up/sign-in, Google federated login, sessions in an
// expiring key-value store, and per-address rate limiting of
// authentication attempts.
package moat

import (
	"log/slog"

	"github.com/jrlim/moat/core"
	"github.com/jrlim/moat/crypto"
)

// interfaces
type (
	Storage     = core.Storage
	KeyValue    = core.KeyValue
	HTTPAdapter = core.HTTPAdapter
	AuthHandler = core.AuthHandler

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Moat            = core.Moat
	SessionConfig   = core.SessionConfig
	RateLimitConfig = core.RateLimitConfig
	GoogleConfig    = core.GoogleConfig
)

type (
	User        = core.User
	Account     = core.Account
	Role        = core.Role
	Provider    = core.Provider
	SessionData = core.SessionData
	SessionUser = core.SessionUser
	Outcome     = core.Outcome
	CookieSpec  = core.CookieSpec
)

const (
	RoleAdmin  = core.RoleAdmin
	RoleAuthor = core.RoleAuthor
	RoleUser   = core.RoleUser

	ProviderGithub      = core.ProviderGithub
	ProviderGoogle      = core.ProviderGoogle
	ProviderCredentials = core.ProviderCredentials
)

// Constructors & helpers (convenience re-exports)
var (
	NewPBKDF2              = crypto.NewPBKDF2
	DefaultSessionConfig   = core.DefaultSessionConfig
	DefaultRateLimitConfig = core.DefaultRateLimitConfig
)

var (
	ErrUserNotFound       = core.ErrUserNotFound
	ErrEmailTaken         = core.ErrEmailTaken
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrKeyNotFound        = core.ErrKeyNotFound
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrKVAdapterRequired   = core.ErrKVAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

// Config wires the external dependencies into a Moat instance. Database,
// KV, and HTTP are required; everything else has defaults.
type Config struct {
	Database core.Storage
	KV       core.KeyValue
	HTTP     core.HTTPAdapter

	// Optional config
	PasswordHasher crypto.PasswordHandler
	SessionConfig  *core.SessionConfig
	RateLimit      *core.RateLimitConfig
	Google         *core.GoogleConfig
	Logger         *slog.Logger
}

// New validates the configuration, applies defaults, and registers the
// authentication routes on the HTTP adapter.
func New(config Config) (*Moat, error) {
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.KV == nil {
		return nil, ErrKVAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set defaults

	hasher := config.PasswordHasher
	if hasher == nil {
		hasher = crypto.NewPBKDF2()
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := core.DefaultSessionConfig()
		sessionConfig = &defaults
	}

	rateLimit := config.RateLimit
	if rateLimit == nil {
		defaults := core.DefaultRateLimitConfig()
		rateLimit = &defaults
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var google *core.GoogleProvider
	if config.Google != nil {
		google = core.NewGoogleProvider(*config.Google)
	}

	m := &Moat{
		Database: config.Database,
		Sessions: core.NewSessionStore(config.KV, *sessionConfig, logger),
		Limiter:  core.NewRateLimiter(config.KV, *rateLimit),
		Hasher:   hasher,
		Google:   google,
		Logger:   logger,
	}

	if err := config.HTTP.RegisterRoutes(m); err != nil {
		return nil, err
	}

	return m, nil
}
