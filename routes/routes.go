package routes

import "net/url"

// Route path constants
// All dashboard destinations are defined here so navigation defaults and handlers agree
const (
	// Neutral landing page, redirects on to the role's default route when one exists
	Root = "/"

	// Guest-only routes
	Login  = "/login"
	Signup = "/signup"

	// Any authenticated user
	Logout  = "/logout"
	Profile = "/profile"

	// ADMIN
	AdminEmployees = "/admin/employees"
	AdminEmployee  = "/admin/employees/{userId}"
	AdminUsers     = "/admin/users"

	// STAFF
	StaffCustomers    = "/staff/customers"
	StaffCustomerNew  = "/staff/customers/new"
	StaffCustomerEdit = "/staff/customers/{customerId}/edit"
	StaffPredict      = "/staff/customers/{customerId}/predict"

	// RISK_ANALYST
	RiskDashboard = "/risk-analyst/dashboard"

	// STAFF and RISK_ANALYST
	Customer   = "/customers/{customerId}"
	Prediction = "/predictions/{predictionId}"

	// Live prediction status feed
	PredictionFeed = "/ws/predictions/{predictionId}"

	// Fallback is where a denied user without a default route is sent
	Fallback = Root
)

// CustomerPath returns the detail page for one customer.
func CustomerPath(customerID string) string {
	return "/customers/" + url.PathEscape(customerID)
}

// PredictionPath returns the result page for one prediction.
func PredictionPath(predictionID string) string {
	return "/predictions/" + url.PathEscape(predictionID)
}

// PredictionFeedPath returns the websocket feed for one prediction.
func PredictionFeedPath(predictionID string) string {
	return "/ws/predictions/" + url.PathEscape(predictionID)
}

// CustomerEditPath returns the staff edit form for one customer.
func CustomerEditPath(customerID string) string {
	return "/staff/customers/" + url.PathEscape(customerID) + "/edit"
}

// EmployeePath returns the admin edit page for one employee.
func EmployeePath(userID string) string {
	return "/admin/employees/" + url.PathEscape(userID)
}

// IsGuestOnly reports whether path is a page an authenticated user must not see.
func IsGuestOnly(path string) bool {
	return path == Login || path == Signup
}
