package apiclient

import (
	"context"
	"net/http"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/sessions"
	"golang.org/x/oauth2"
)

// SessionSource yields the current session, nil when logged out.
type SessionSource interface {
	Session() *sessions.AuthSession
}

// SessionClient makes authenticated calls on behalf of whoever SessionSource says is logged in.
// The session is read on every call, so a logout takes effect immediately.
type SessionClient struct {
	client *Client
	source SessionSource
}

// WithSession binds the client to a session source.
func (c *Client) WithSession(source SessionSource) *SessionClient {
	return &SessionClient{client: c, source: source}
}

// call sends an authenticated request. Without a session nothing is sent.
func (s *SessionClient) call(ctx context.Context, r request) (*http.Response, []byte, error) {
	session := s.source.Session()
	if session == nil {
		return nil, nil, errs.Wrapf(errs.ErrNotAuthenticated, "%s %s", r.method, r.path)
	}

	if r.header == nil {
		r.header = http.Header{}
	}
	if session.Role != "" {
		r.header.Set(headerUserRole, session.Role)
	}
	if session.UserID != "" {
		r.header.Set(headerUserID, session.UserID)
	}

	req, err := s.client.newRequest(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	token := &oauth2.Token{AccessToken: session.AccessToken, TokenType: session.GetTokenType()}
	return s.client.send(s.client.bearerClient(token), req)
}

func getJSON[T any](ctx context.Context, s *SessionClient, path string) (*T, error) {
	return sendJSON[T](ctx, s, request{method: http.MethodGet, path: path})
}

func sendJSON[T any](ctx context.Context, s *SessionClient, r request) (*T, error) {
	resp, data, err := s.call(ctx, r)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := decodeJSON(resp, data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func getList[T any](ctx context.Context, s *SessionClient, path string) ([]T, error) {
	return sendList[T](ctx, s, request{method: http.MethodGet, path: path})
}

func sendList[T any](ctx context.Context, s *SessionClient, r request) ([]T, error) {
	resp, data, err := s.call(ctx, r)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp, data)
}
