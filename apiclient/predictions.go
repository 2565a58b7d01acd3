package apiclient

import (
	"context"
	"net/http"
	"net/url"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/poller"
	"github.com/jrsteele09/riskdesk/predictions"
)

var _ poller.Fetcher = (*SessionClient)(nil)

type createPredictionRequest struct {
	CustomerID string `json:"customerId"`
}

// CreatePrediction starts a risk prediction for a customer. The backend attributes it to the
// employee in X-User-Id. A response without a predictionId is an error.
func (s *SessionClient) CreatePrediction(ctx context.Context, customerID string) (*predictions.Job, error) {
	job, err := sendJSON[predictions.Job](ctx, s, request{
		method: http.MethodPost,
		path:   "/predictions",
		body:   createPredictionRequest{CustomerID: customerID},
	})
	if err != nil {
		return nil, err
	}
	if job.PredictionID == "" {
		return nil, errs.ErrMissingPredictionID
	}
	return job, nil
}

// GetPrediction reads the current state of one prediction.
func (s *SessionClient) GetPrediction(ctx context.Context, predictionID string) (*predictions.Job, error) {
	return getJSON[predictions.Job](ctx, s, "/predictions/"+url.PathEscape(predictionID))
}

func (s *SessionClient) ListPredictions(ctx context.Context) ([]predictions.Job, error) {
	return getList[predictions.Job](ctx, s, "/predictions")
}

func (s *SessionClient) ListPredictionsByCustomer(ctx context.Context, customerID string) ([]predictions.Job, error) {
	return getList[predictions.Job](ctx, s, "/predictions/customer/"+url.PathEscape(customerID))
}

func (s *SessionClient) ListPredictionsByEmployee(ctx context.Context, employeeID string) ([]predictions.Job, error) {
	return getList[predictions.Job](ctx, s, "/predictions/employee/"+url.PathEscape(employeeID))
}

// ListMyPredictions returns the predictions created by the logged in employee.
func (s *SessionClient) ListMyPredictions(ctx context.Context) ([]predictions.Job, error) {
	return getList[predictions.Job](ctx, s, "/predictions/employee/me")
}
