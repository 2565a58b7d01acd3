package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

func (s *SessionClient) ListEmployees(ctx context.Context) ([]Employee, error) {
	return getList[Employee](ctx, s, "/users-profiles")
}

// CurrentProfile returns the logged in employee's own profile.
func (s *SessionClient) CurrentProfile(ctx context.Context) (*Employee, error) {
	return getJSON[Employee](ctx, s, "/users-profiles/me")
}

func (s *SessionClient) GetEmployee(ctx context.Context, userID string) (*Employee, error) {
	return getJSON[Employee](ctx, s, "/users-profiles/"+url.PathEscape(userID))
}

func (s *SessionClient) CreateEmployee(ctx context.Context, employee Employee) (*Employee, error) {
	return sendJSON[Employee](ctx, s, request{method: http.MethodPost, path: "/users-profiles", body: employee})
}

func (s *SessionClient) UpdateEmployee(ctx context.Context, userID string, employee Employee) (*Employee, error) {
	return sendJSON[Employee](ctx, s, request{method: http.MethodPut, path: "/users-profiles/" + url.PathEscape(userID), body: employee})
}
