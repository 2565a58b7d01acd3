package auth

import (
	"context"

	"github.com/jrsteele09/riskdesk/sessions"
)

// Exchanger is the external auth service: it trades credentials for a session and tears it down.
type Exchanger interface {
	Login(ctx context.Context, email, password string) (*sessions.AuthSession, error)
	Logout(ctx context.Context, accessToken string) error
}
