package core

import "time"

// Role is the authorization level attached to a user and carried inside
// the session record.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleAuthor Role = "Author"
	RoleUser   Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleUser:
		return true
	}
	return false
}

// Provider is the credential mechanism backing an Account.
type Provider string

const (
	ProviderGithub      Provider = "Github"
	ProviderGoogle      Provider = "Google"
	ProviderCredentials Provider = "Credentials"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGithub, ProviderGoogle, ProviderCredentials:
		return true
	}
	return false
}

// User represents an identity record.
//
// A user with no Salt/PasswordHash pair cannot authenticate with a
// password and must sign in through a federated provider.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Role          Role       `json:"role"`
	Salt          *string    `json:"-"` // Never expose in JSON
	PasswordHash  *string    `json:"-"` // Never expose in JSON
	Age           *int       `json:"age,omitempty"`
	Country       *string    `json:"country,omitempty"`
	Bio           *string    `json:"bio,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CanPassword reports whether the user has a stored password credential.
func (u *User) CanPassword() bool {
	return u.Salt != nil && u.PasswordHash != nil
}

// Account links a User to one credential provider.
//
// ProviderAccountID holds the provider's external identifier for
// federated accounts; it is never used as the row ID.
type Account struct {
	ID                string    `json:"id"`
	Provider          Provider  `json:"provider"`
	UserID            string    `json:"userId"`
	ProviderAccountID *string   `json:"providerAccountId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UserPatch holds the mutable profile fields of a user. Nil fields are
// left untouched. Salt, password hash, and role are deliberately absent.
type UserPatch struct {
	Name          *string
	Image         *string
	EmailVerified *time.Time
	Age           *int
	Country       *string
	Bio           *string
}

// SessionData is the value stored in the key-value backend for an active
// session, keyed by the high-entropy session identifier.
type SessionData struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
}

// SessionUser combines the session record with the user it belongs to.
// This is what the middleware hands to downstream handlers.
type SessionUser struct {
	Session *SessionData `json:"session"`
	User    *User        `json:"user"`
}

// SignUpInput contains the data needed to register a new user.
// Field-level shape validation happens before the core is reached.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInInput contains the credentials for authentication.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
