package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrlim/moat/crypto"
)

// Landing destinations handed back to the transport layer.
const (
	AuthenticatedLanding   = "/dashboard"
	UnauthenticatedLanding = "/"
	SignInPage             = "/sign-in"
)

// User-facing messages. Sign-in failures for an unknown email and for a
// wrong password deliberately share one message so callers cannot
// enumerate accounts.
const (
	msgInvalidForm      = "Invalid form data"
	msgRateLimited      = "Too many attempts. Please try again later"
	msgEmailTaken       = "Email address already exists. Please sign in"
	msgSignedUp         = "Signed up successfully! Please verify your email address before signing in"
	msgBadCredentials   = "Invalid email or password"
	msgProviderGuidance = "You used a different provider to sign up. Please sign in with that provider to set a password"
	msgSignedIn         = "Signed in successfully!"
	msgInternal         = "Internal server error"
)

// Ensure Moat implements AuthHandler
var _ AuthHandler = (*Moat)(nil)

// gate applies the rate limiter before any credential work. A non-nil
// result short-circuits the flow.
func (m *Moat) gate(ctx context.Context, clientAddr string) *Outcome {
	decision, err := m.Limiter.Check(ctx, clientAddr)
	if err != nil {
		m.Logger.Error("rate limit check failed", "error", err)
		out := Failure(FailureInternal, msgInternal)
		return &out
	}
	if !decision.Allowed {
		out := Failure(FailureRateLimited, msgRateLimited)
		return &out
	}
	if err := m.Limiter.Record(ctx, clientAddr); err != nil {
		m.Logger.Error("rate limit record failed", "error", err)
		out := Failure(FailureInternal, msgInternal)
		return &out
	}
	return nil
}

// SignUp registers a new user with email and password. No session is
// issued; the user is asked to verify their email before signing in.
func (m *Moat) SignUp(ctx context.Context, input SignUpInput, clientAddr string) Outcome {
	if blocked := m.gate(ctx, clientAddr); blocked != nil {
		return *blocked
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return Failure(FailureValidation, msgInvalidForm)
	}

	existing, err := m.Database.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		m.Logger.Error("sign-up lookup failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}
	if existing != nil {
		return Failure(FailureConflict, msgEmailTaken)
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		m.Logger.Error("salt generation failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}
	hash, err := m.Hasher.Hash(input.Password, salt)
	if err != nil {
		m.Logger.Error("password hashing failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		Role:         RoleUser,
		Salt:         &salt,
		PasswordHash: &hash,
	}
	if err := m.Database.CreateUser(ctx, user); err != nil {
		// a concurrent sign-up may win the uniqueness race
		if errors.Is(err, ErrEmailTaken) {
			return Failure(FailureConflict, msgEmailTaken)
		}
		m.Logger.Error("user creation failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}

	account := &Account{Provider: ProviderCredentials, UserID: user.ID}
	if err := m.Database.CreateAccount(ctx, account); err != nil {
		// not compensated: the user row stays without a credential
		// account until a transactional boundary spans both inserts
		m.Logger.Error("account creation failed", "user_id", user.ID, "error", err)
		return Failure(FailureInternal, msgInternal)
	}

	return Success(msgSignedUp)
}

// SignIn authenticates a user with email and password and issues a new
// fixed-lifetime session on success.
func (m *Moat) SignIn(ctx context.Context, input SignInInput, clientAddr string) Outcome {
	if blocked := m.gate(ctx, clientAddr); blocked != nil {
		return *blocked
	}

	if input.Email == "" || input.Password == "" {
		return Failure(FailureValidation, msgInvalidForm)
	}

	user, err := m.Database.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Failure(FailureBadCredentials, msgBadCredentials)
		}
		m.Logger.Error("sign-in lookup failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}

	// Federated-only accounts have no password to check. The guidance
	// here reveals provider setup, not password existence.
	if !user.CanPassword() {
		return Failure(FailureProviderMismatch, msgProviderGuidance)
	}

	valid, err := m.Hasher.Verify(input.Password, *user.Salt, *user.PasswordHash)
	if err != nil {
		m.Logger.Error("password verification failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}
	if !valid {
		return Failure(FailureBadCredentials, msgBadCredentials)
	}

	issued, err := m.issueSession(ctx, user.ID, user.Role)
	if err != nil {
		m.Logger.Error("session issuance failed", "error", err)
		return Failure(FailureInternal, msgInternal)
	}

	return Success(msgSignedIn).WithSession(issued)
}

// SignOut invalidates the session and instructs the transport to delete
// the cookie. Idempotent: callers without a session are redirected the
// same way.
func (m *Moat) SignOut(ctx context.Context, sessionID string) Outcome {
	if sessionID != "" {
		if err := m.Sessions.Invalidate(ctx, sessionID); err != nil {
			m.Logger.Error("session invalidation failed", "error", err)
		}
	}
	out := Redirect(SignInPage)
	out.ClearSession = true
	return out
}

// GoogleCallback completes the authorization-code flow: it exchanges the
// code, fetches the profile, links or creates the user, and issues a
// session. Every abort path redirects to the unauthenticated landing
// destination without raising a fatal error.
func (m *Moat) GoogleCallback(ctx context.Context, code, clientAddr string) Outcome {
	if m.Google == nil {
		m.Logger.Error("google callback invoked without provider config")
		return Redirect(UnauthenticatedLanding)
	}

	decision, err := m.Limiter.Check(ctx, clientAddr)
	if err != nil || !decision.Allowed {
		return Redirect(UnauthenticatedLanding)
	}
	if err := m.Limiter.Record(ctx, clientAddr); err != nil {
		m.Logger.Error("rate limit record failed", "error", err)
		return Redirect(UnauthenticatedLanding)
	}

	if code == "" {
		return Redirect(UnauthenticatedLanding)
	}

	token, err := m.Google.Exchange(ctx, code)
	if err != nil {
		m.Logger.Error("google token exchange failed", "error", err)
		return Redirect(UnauthenticatedLanding)
	}

	profile, err := m.Google.Profile(ctx, token)
	if err != nil {
		m.Logger.Error("google profile fetch failed", "error", err)
		return Redirect(UnauthenticatedLanding)
	}

	user, err := m.Database.GetUserByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		now := time.Now()
		user = &User{
			Name:          profile.DisplayName(),
			Email:         profile.Email,
			Image:         profile.Picture,
			EmailVerified: &now, // the provider attests the address
			Role:          RoleUser,
		}
		if err := m.Database.CreateUser(ctx, user); err != nil {
			m.Logger.Error("google user creation failed", "error", err)
			return Redirect(UnauthenticatedLanding)
		}
		account := &Account{
			Provider:          ProviderGoogle,
			UserID:            user.ID,
			ProviderAccountID: &profile.ID,
		}
		if err := m.Database.CreateAccount(ctx, account); err != nil {
			m.Logger.Error("google account creation failed", "user_id", user.ID, "error", err)
			return Redirect(UnauthenticatedLanding)
		}
	case err != nil:
		m.Logger.Error("google callback lookup failed", "error", err)
		return Redirect(UnauthenticatedLanding)
	default:
		// opportunistic backfill on re-login
		if user.Image == nil || user.EmailVerified == nil {
			now := time.Now()
			patch := UserPatch{EmailVerified: &now}
			if user.Image == nil {
				patch.Image = profile.Picture
			}
			if user, err = m.Database.UpdateUser(ctx, user.ID, patch); err != nil {
				m.Logger.Error("google backfill failed", "error", err)
				return Redirect(UnauthenticatedLanding)
			}
		}
	}

	issued, err := m.issueSession(ctx, user.ID, user.Role)
	if err != nil {
		m.Logger.Error("session issuance failed", "error", err)
		return Redirect(UnauthenticatedLanding)
	}

	return Redirect(AuthenticatedLanding).WithSession(issued)
}

// GetSession resolves a session cookie value into session data plus the
// owning user. Nil without error means unauthenticated.
func (m *Moat) GetSession(ctx context.Context, sessionID string) (*SessionUser, error) {
	data, err := m.Sessions.Get(ctx, sessionID)
	if err != nil || data == nil {
		return nil, err
	}

	user, err := m.Database.GetUserByID(ctx, data.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return &SessionUser{Session: data, User: user}, nil
}

func (m *Moat) issueSession(ctx context.Context, userID string, role Role) (*IssuedSession, error) {
	sessionID, err := crypto.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	if err := m.Sessions.Create(ctx, sessionID, userID, role); err != nil {
		return nil, err
	}
	return &IssuedSession{ID: sessionID, Cookie: m.Sessions.Cookie(sessionID)}, nil
}
