package server

import (
	"context"

	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/jrsteele09/riskdesk/predictions"
)

var _ Backend = (*apiclient.SessionClient)(nil)

// Backend is the part of the loan-risk API the dashboard pages use.
type Backend interface {
	Register(ctx context.Context, email, password, passwordConfirm string) (string, error)
	Signup(ctx context.Context, in apiclient.SignupRequest) (string, error)

	ListEmployees(ctx context.Context) ([]apiclient.Employee, error)
	GetEmployee(ctx context.Context, userID string) (*apiclient.Employee, error)
	UpdateEmployee(ctx context.Context, userID string, employee apiclient.Employee) (*apiclient.Employee, error)
	CurrentProfile(ctx context.Context) (*apiclient.Employee, error)

	ListCustomers(ctx context.Context) ([]apiclient.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*apiclient.Customer, error)
	CreateCustomer(ctx context.Context, customer apiclient.Customer) (*apiclient.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, customer apiclient.Customer) (*apiclient.Customer, error)

	CreatePrediction(ctx context.Context, customerID string) (*predictions.Job, error)
	GetPrediction(ctx context.Context, predictionID string) (*predictions.Job, error)
	ListPredictions(ctx context.Context) ([]predictions.Job, error)
	ListPredictionsByCustomer(ctx context.Context, customerID string) ([]predictions.Job, error)

	StatOverview(ctx context.Context) (apiclient.Stats, error)
	EmployeePredictionCounts(ctx context.Context) ([]apiclient.Stats, error)
}
