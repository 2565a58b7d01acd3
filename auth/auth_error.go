package auth

import (
	"fmt"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
)

// AuthErrorKind classifies why a login did not produce a session.
type AuthErrorKind int

const (
	// KindRejected means the auth service refused the credentials.
	KindRejected AuthErrorKind = iota
	// KindUnavailable means the auth service could not be reached or answered unexpectedly.
	KindUnavailable
	// KindInvalidSession means the auth service answered with an unusable session record.
	KindInvalidSession
)

func (k AuthErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidSession:
		return "invalid session"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AuthError is returned by Manager.Login. Message is suitable for showing to the user.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "login failed: " + e.Message
	}
	return fmt.Sprintf("login failed: %s: %v", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// messageProvider is implemented by errors that carry a backend message fit for users.
type messageProvider interface {
	UserMessage() string
}

func newLoginError(err error) *AuthError {
	authErr := &AuthError{Kind: KindUnavailable, Message: "Login failed, please try again", Err: err}
	if errs.Is(err, errs.ErrInvalidCredentials) {
		authErr.Kind = KindRejected
		authErr.Message = "Invalid email or password"
	}
	var provider messageProvider
	if errs.As(err, &provider) && provider.UserMessage() != "" {
		authErr.Message = provider.UserMessage()
	}
	return authErr
}

func newInvalidSessionError(err error) *AuthError {
	return &AuthError{Kind: KindInvalidSession, Message: "The server returned an incomplete session", Err: err}
}

// ErrInvalidCredentials is what an Exchanger returns when the auth service rejects the credentials.
var ErrInvalidCredentials = errs.ErrInvalidCredentials
