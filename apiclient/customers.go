package apiclient

import (
	"context"
	"net/http"
	"net/url"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
)

func (s *SessionClient) ListCustomers(ctx context.Context) ([]Customer, error) {
	return getList[Customer](ctx, s, "/customers")
}

func (s *SessionClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	return getJSON[Customer](ctx, s, "/customers/"+url.PathEscape(customerID))
}

func (s *SessionClient) CreateCustomer(ctx context.Context, customer Customer) (*Customer, error) {
	return sendJSON[Customer](ctx, s, request{method: http.MethodPost, path: "/customers", body: customer})
}

// CreateCustomers imports customers in one request.
func (s *SessionClient) CreateCustomers(ctx context.Context, customers []Customer) ([]Customer, error) {
	return sendList[Customer](ctx, s, request{method: http.MethodPost, path: "/customers/bulk", body: customers})
}

func (s *SessionClient) UpdateCustomer(ctx context.Context, customerID string, customer Customer) (*Customer, error) {
	return sendJSON[Customer](ctx, s, request{method: http.MethodPut, path: "/customers/" + url.PathEscape(customerID), body: customer})
}

// ListCustomersByDecision lists approved, rejected or pending customers.
func (s *SessionClient) ListCustomersByDecision(ctx context.Context, decision CustomerDecision) ([]Customer, error) {
	switch decision {
	case DecisionApproved, DecisionRejected, DecisionPending:
	default:
		return nil, errs.Wrapf(errs.ErrBadRequest, "unknown customer decision %q", decision)
	}
	return getList[Customer](ctx, s, "/customers/"+string(decision))
}

// ListCustomersByStaff lists the customers one staff member manages.
func (s *SessionClient) ListCustomersByStaff(ctx context.Context, staffID string) ([]Customer, error) {
	return getList[Customer](ctx, s, "/customers/staff/"+url.PathEscape(staffID))
}
