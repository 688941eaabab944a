package core

import "time"

// FailureKind classifies a terminal failure so transport adapters can
// pick a status code without parsing messages.
type FailureKind string

const (
	FailureValidation       FailureKind = "validation"
	FailureRateLimited      FailureKind = "rate_limited"
	FailureBadCredentials   FailureKind = "bad_credentials"
	FailureProviderMismatch FailureKind = "provider_mismatch"
	FailureConflict         FailureKind = "conflict"
	FailureUpstream         FailureKind = "upstream"
	FailureInternal         FailureKind = "internal"
)

// OutcomeStatus is the terminal state of one authentication attempt.
type OutcomeStatus string

const (
	OutcomeSuccess  OutcomeStatus = "success"
	OutcomeRedirect OutcomeStatus = "redirect"
	OutcomeFailure  OutcomeStatus = "failure"
)

// IssuedSession carries a freshly created session identifier plus the
// cookie the transport layer should set for it.
type IssuedSession struct {
	ID     string
	Cookie CookieSpec
}

// CookieSpec describes a cookie directive for the transport collaborator.
// The core never touches the wire itself.
type CookieSpec struct {
	Name     string
	Value    string
	Path     string
	HTTPOnly bool
	SameSite string
	Secure   bool
	Expires  time.Time
}

// Outcome is the terminal result of one authentication attempt. Each
// attempt is atomic from the caller's perspective: there is no
// retryable intermediate state.
type Outcome struct {
	Status       OutcomeStatus
	Message      string
	Target       string // redirect destination, when Status is OutcomeRedirect
	Failure      FailureKind
	Session      *IssuedSession // set when a session was issued
	ClearSession bool           // instructs the transport to delete the session cookie
}

// Success builds a success outcome with a user-facing message.
func Success(message string) Outcome {
	return Outcome{Status: OutcomeSuccess, Message: message}
}

// Redirect builds a redirect outcome toward target.
func Redirect(target string) Outcome {
	return Outcome{Status: OutcomeRedirect, Target: target}
}

// Failure builds a failure outcome of the given kind.
func Failure(kind FailureKind, message string) Outcome {
	return Outcome{Status: OutcomeFailure, Failure: kind, Message: message}
}

// WithSession attaches an issued session to the outcome.
func (o Outcome) WithSession(s *IssuedSession) Outcome {
	o.Session = s
	return o
}
