package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const sessionKeyPrefix = "session:"

// SessionConfig controls session lifetime and the cookie the transport
// layer emits for it. Sessions are fixed-lifetime: the TTL is set once
// at creation and never renewed on activity.
type SessionConfig struct {
	// TTL is the session lifetime in the key-value store and the
	// cookie expiry handed to the transport layer.
	TTL time.Duration
	// CookieName is the cookie carrying the session identifier.
	CookieName string
	// Secure marks emitted cookies Secure (set in production).
	Secure bool
}

// DefaultSessionConfig returns the 7-day fixed-lifetime configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:        7 * 24 * time.Hour,
		CookieName: "session",
	}
}

// SessionStore is the sole reader/writer of session records in the
// key-value backend.
type SessionStore struct {
	kv     KeyValue
	config SessionConfig
	logger *slog.Logger
}

func NewSessionStore(kv KeyValue, config SessionConfig, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{kv: kv, config: config, logger: logger}
}

// Create writes the session record under session:<sessionID> with the
// configured TTL, overwriting any existing record at that key.
func (s *SessionStore) Create(ctx context.Context, sessionID, userID string, role Role) error {
	value, err := json.Marshal(SessionData{UserID: userID, Role: role})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKeyPrefix+sessionID, string(value), s.config.TTL); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get reads and validates the session record. Missing keys, malformed
// values, and backend read failures all resolve to (nil, nil): stored
// session data is never trusted unvalidated, and a read-path outage
// must look like "no session" to the caller. Malformed and errored
// reads delete the key defensively.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*SessionData, error) {
	if sessionID == "" {
		return nil, nil
	}

	key := sessionKeyPrefix + sessionID
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error("session read failed, treating as absent", "error", err)
			// best effort; the key may be unreachable anyway
			_ = s.kv.Del(ctx, key)
		}
		return nil, nil
	}

	data := &SessionData{}
	if err := json.Unmarshal([]byte(raw), data); err != nil || data.UserID == "" || !data.Role.Valid() {
		s.logger.Error("corrupted session record, deleting", "error", err)
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}

	return data, nil
}

// CookieName returns the name of the session cookie.
func (s *SessionStore) CookieName() string {
	return s.config.CookieName
}

// Invalidate deletes the session record. Idempotent on missing keys.
func (s *SessionStore) Invalidate(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, sessionKeyPrefix+sessionID)
}

// Cookie builds the cookie directive for a freshly issued session.
func (s *SessionStore) Cookie(sessionID string) CookieSpec {
	return CookieSpec{
		Name:     s.config.CookieName,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.Secure,
		Expires:  time.Now().Add(s.config.TTL),
	}
}

// ClearCookie builds the deletion directive for the session cookie.
func (s *SessionStore) ClearCookie() CookieSpec {
	return CookieSpec{
		Name:     s.config.CookieName,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.Secure,
		Expires:  time.Unix(0, 0),
	}
}
