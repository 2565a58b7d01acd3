package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/riskdesk/auth"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/sessions"
	"golang.org/x/oauth2"
)

var _ auth.Exchanger = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. A refusal from the auth service wraps
// auth.ErrInvalidCredentials and carries the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (*sessions.AuthSession, error) {
	req, err := c.newRequest(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}

	resp, data, err := c.send(c.httpClient, req)
	if err != nil {
		var statusErr *StatusError
		if errs.As(err, &statusErr) && isCredentialRefusal(statusErr.StatusCode) {
			statusErr.cause = auth.ErrInvalidCredentials
		}
		return nil, err
	}

	session := &sessions.AuthSession{}
	if err := decodeJSON(resp, data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func isCredentialRefusal(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Logout tells the auth service to drop accessToken.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, request{method: http.MethodPost, path: "/auth/logout"})
	if err != nil {
		return err
	}
	token := &oauth2.Token{AccessToken: accessToken, TokenType: sessions.DefaultTokenType}
	_, _, err = c.send(c.bearerClient(token), req)
	return err
}

// bearerClient wraps the client's transport so every request carries token.
func (c *Client) bearerClient(token *oauth2.Token) *http.Client {
	return &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(token),
			Base:   c.httpClient.Transport,
		},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}
}

// SignupRequest creates a dashboard account. Role is one of rbac.SignupRoles.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Role            string `json:"role"`
}

// Signup creates an account on behalf of an administrator and returns the backend's
// confirmation. 401, 403 and 400 unwrap to ErrSessionExpired, ErrForbidden and ErrBadRequest.
func (s *SessionClient) Signup(ctx context.Context, in SignupRequest) (string, error) {
	role := rbac.Parse(in.Role)
	if !role.In(rbac.SignupRoles...) {
		return "", errs.Wrapf(errs.ErrBadRequest, "role %q cannot be assigned at signup", in.Role)
	}
	if in.Password != in.PasswordConfirm {
		return "", errs.Wrapf(errs.ErrBadRequest, "passwords do not match")
	}
	in.Role = role.Canonical()

	_, data, err := s.call(ctx, request{method: http.MethodPost, path: "/auth/signup", body: in})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// Register creates an account through the public signup endpoint and returns the
// backend's confirmation.
func (c *Client) Register(ctx context.Context, email, password, passwordConfirm string) (string, error) {
	if password != passwordConfirm {
		return "", errs.Wrapf(errs.ErrBadRequest, "passwords do not match")
	}
	req, err := c.newRequest(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   registerRequest{Email: email, Password: password, PasswordConfirm: passwordConfirm},
	})
	if err != nil {
		return "", err
	}
	_, data, err := c.send(c.httpClient, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Register is Client.Register, available to holders of a SessionClient.
func (s *SessionClient) Register(ctx context.Context, email, password, passwordConfirm string) (string, error) {
	return s.client.Register(ctx, email, password, passwordConfirm)
}
