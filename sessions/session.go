package sessions

import (
	"encoding/json"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/rbac"
)

// DefaultTokenType is the authorization scheme used when the backend omits one.
const DefaultTokenType = "Bearer"

// AuthSession is the record returned by a successful login and persisted across restarts.
// It is either absent or complete: a usable session always has an access token and a role.
type AuthSession struct {
	UserID       string `json:"userId"`       // Opaque backend identifier, stable for the session
	Email        string `json:"email"`        // Display identifier
	Role         string `json:"role"`         // Raw backend role, plain ("ADMIN") or prefixed ("ROLE_ADMIN")
	AccessToken  string `json:"accessToken"`  // Bearer credential sent with every authenticated request
	RefreshToken string `json:"refreshToken"` // Opaque, kept for the backend
	TokenType    string `json:"tokenType"`    // Authorization scheme, defaults to Bearer
}

// Validate reports ErrIncompleteSession when a required field is missing.
func (s *AuthSession) Validate() error {
	if s == nil {
		return errs.ErrIncompleteSession
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return errs.Wrapf(errs.ErrIncompleteSession, "missing accessToken")
	}
	if strings.TrimSpace(s.Role) == "" {
		return errs.Wrapf(errs.ErrIncompleteSession, "missing role")
	}
	return nil
}

// GetTokenType returns the authorization scheme, falling back to Bearer.
func (s AuthSession) GetTokenType() string {
	if s.TokenType == "" {
		return DefaultTokenType
	}
	return s.TokenType
}

// ParsedRole converts the raw role at the boundary into the dashboard's role enum.
func (s AuthSession) ParsedRole() rbac.Role {
	return rbac.Parse(s.Role)
}

// ExpiresAt reads the exp claim of a JWT access token without verifying it.
// The signature belongs to the backend, the dashboard only uses exp to avoid restoring a dead session.
// Tokens that are not JWTs, or carry no exp, report false.
func (s AuthSession) ExpiresAt() (time.Time, bool) {
	claims := jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(s.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the access token carries an exp claim at or before now.
func (s AuthSession) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// UnmarshalJSON accepts the role either as a string or as an enum object such as {"name":"ADMIN"}.
func (s *AuthSession) UnmarshalJSON(data []byte) error {
	type plain AuthSession
	aux := struct {
		*plain
		Role json.RawMessage `json:"role"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	role, err := decodeRole(aux.Role)
	if err != nil {
		return err
	}
	s.Role = role
	return nil
}

func decodeRole(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}
	var enum struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &enum); err != nil {
		return "", errs.Wrapf(err, "role is neither a string nor an enum object")
	}
	return enum.Name, nil
}
