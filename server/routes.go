package server

import (
	"net/http"

	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// Guests
	s.RegisterRouteHandler("GET "+routes.Login, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare(s.GuestOnly)...))
	s.RegisterRouteHandler("POST "+routes.Login, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare(s.GuestOnly)...))
	s.RegisterRouteHandler("GET "+routes.Signup, ChainMiddleware(s.SignupPageHandler(), s.HTMLMiddleWare(s.GuestOnly)...))
	s.RegisterRouteHandler("POST "+routes.Signup, ChainMiddleware(s.SignupSubmissionHandler(), s.HTMLMiddleWare(s.GuestOnly)...))

	// Any authenticated user
	s.RegisterRouteHandler("POST "+routes.Logout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+routes.Profile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleWare(s.RequireRoles())...))

	// ADMIN
	admin := s.RequireRoles(rbac.Admin)
	s.RegisterRouteHandler("GET "+routes.AdminEmployees, ChainMiddleware(s.AdminEmployeesHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("GET "+routes.AdminEmployee, ChainMiddleware(s.AdminEmployeeHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("POST "+routes.AdminEmployee, ChainMiddleware(s.AdminEmployeeUpdateHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("GET "+routes.AdminUsers, ChainMiddleware(s.AdminUsersHandler(), s.HTMLMiddleWare(admin)...))
	s.RegisterRouteHandler("POST "+routes.AdminUsers, ChainMiddleware(s.AdminUsersCreateHandler(), s.HTMLMiddleWare(admin)...))

	// STAFF
	staff := s.RequireRoles(rbac.Staff)
	s.RegisterRouteHandler("GET "+routes.StaffCustomers, ChainMiddleware(s.StaffCustomersHandler(), s.HTMLMiddleWare(staff)...))
	s.RegisterRouteHandler("GET "+routes.StaffCustomerNew, ChainMiddleware(s.CustomerFormHandler(), s.HTMLMiddleWare(staff)...))
	s.RegisterRouteHandler("POST "+routes.StaffCustomerNew, ChainMiddleware(s.CustomerSaveHandler(), s.HTMLMiddleWare(staff)...))
	s.RegisterRouteHandler("GET "+routes.StaffCustomerEdit, ChainMiddleware(s.CustomerFormHandler(), s.HTMLMiddleWare(staff)...))
	s.RegisterRouteHandler("POST "+routes.StaffCustomerEdit, ChainMiddleware(s.CustomerSaveHandler(), s.HTMLMiddleWare(staff)...))
	s.RegisterRouteHandler("POST "+routes.StaffPredict, ChainMiddleware(s.StaffPredictHandler(), s.HTMLMiddleWare(staff)...))

	// RISK_ANALYST
	s.RegisterRouteHandler("GET "+routes.RiskDashboard, ChainMiddleware(s.RiskDashboardHandler(), s.HTMLMiddleWare(s.RequireRoles(rbac.RiskAnalyst))...))

	// STAFF and RISK_ANALYST
	shared := s.RequireRoles(rbac.Staff, rbac.RiskAnalyst)
	s.RegisterRouteHandler("GET "+routes.Customer, ChainMiddleware(s.CustomerHandler(), s.HTMLMiddleWare(shared)...))
	s.RegisterRouteHandler("GET "+routes.Prediction, ChainMiddleware(s.PredictionHandler(), s.HTMLMiddleWare(shared)...))
	s.RegisterRouteHandler("GET "+routes.PredictionFeed, ChainMiddleware(s.PredictionFeedHandler(), s.RequestIDMiddleware, s.LoggingMiddleware, s.RecoverMiddleware))

	s.RegisterRouteHandler("GET /static/{file}", ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteFunc("/", s.notFoundHandler())
}

func (s *Server) notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	}
}
