package server

import (
	"net/http"

	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/jrsteele09/riskdesk/poller"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
)

type customerView struct {
	Customer    *apiclient.Customer
	Predictions []predictions.Job
	BackPath    string
	CanPredict  bool
}

type predictionView struct {
	Job      *predictions.Job
	BackPath string
	FeedPath string
}

type dashboardView struct {
	Predictions []predictions.Job
	Overview    apiclient.Stats
	Employees   []apiclient.Stats
}

func (s *Server) StaffCustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := s.backend.ListCustomers(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.render(w, http.StatusOK, "customers.html", s.newPage(r, "Customers", customers))
	}
}

// StaffPredictHandler submits a prediction job and sends the user to its result page.
func (s *Server) StaffPredictHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := s.backend.CreatePrediction(r.Context(), r.PathValue("customerId"))
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.logger.Info().Str("predictionId", job.PredictionID).Str("customerId", job.CustomerID).Msg("Prediction submitted")
		http.Redirect(w, r, routes.PredictionPath(job.PredictionID), http.StatusSeeOther)
	}
}

// CustomerHandler shows one customer with the predictions made for them.
func (s *Server) CustomerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("customerId")
		customer, err := s.backend.GetCustomer(r.Context(), customerID)
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		jobs, err := s.backend.ListPredictionsByCustomer(r.Context(), customerID)
		if err != nil {
			s.logger.Warn().Str("customerId", customerID).Err(err).Msg("Failed to list customer predictions")
		}

		role := s.manager.Role()
		view := customerView{
			Customer:    customer,
			Predictions: jobs,
			BackPath:    rbac.BackRouteFromCustomer(role),
			CanPredict:  rbac.IsStaff(role),
		}
		s.render(w, http.StatusOK, "customer.html", s.newPage(r, customer.FullName, view))
	}
}

// PredictionHandler shows a job. Unfinished jobs update over the live feed, or by
// reloading the page when no feed is available.
func (s *Server) PredictionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := s.backend.GetPrediction(r.Context(), r.PathValue("predictionId"))
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		view := predictionView{
			Job:      job,
			BackPath: rbac.BackRouteFromPrediction(s.manager.Role(), job.CustomerID),
		}
		page := s.newPage(r, "Prediction", view)
		if job.Pending() {
			if s.feeds != nil {
				view.FeedPath = routes.PredictionFeedPath(job.PredictionID)
				page.Data = view
			} else {
				page.RefreshSecs = int(poller.DefaultInterval.Seconds())
			}
		}
		s.render(w, http.StatusOK, "prediction.html", page)
	}
}

// RiskDashboardHandler shows every prediction with the analytics summaries.
// Missing summaries do not fail the page.
func (s *Server) RiskDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := s.backend.ListPredictions(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		view := dashboardView{Predictions: jobs}
		if view.Overview, err = s.backend.StatOverview(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to load prediction overview")
		}
		if view.Employees, err = s.backend.EmployeePredictionCounts(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to load employee prediction counts")
		}
		s.render(w, http.StatusOK, "risk_dashboard.html", s.newPage(r, "Risk dashboard", view))
	}
}
