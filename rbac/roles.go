package rbac

import (
	"strings"

	"github.com/jrsteele09/riskdesk/routes"
)

// RolePrefix is the namespace some backend endpoints put in front of role names.
const RolePrefix = "ROLE_"

// Raw role names as the backend knows them, without the prefix.
const (
	Admin       = "ADMIN"
	Staff       = "STAFF"
	RiskAnalyst = "RISK_ANALYST"
)

// Role is the closed set of roles the dashboard makes decisions on.
// Raw backend strings become a Role through Parse and nowhere else.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleStaff
	RoleRiskAnalyst
)

// SignupRoles are the roles an administrator may assign when creating an account.
var SignupRoles = []Role{RoleStaff, RoleRiskAnalyst}

// Normalize maps a raw role to its canonical form: uppercase with a guaranteed ROLE_ prefix.
// "ADMIN", "admin" and "ROLE_ADMIN" all normalize to "ROLE_ADMIN". Empty input reports false.
// Unknown input is still normalized, callers must treat a value that matches no known role as no access.
func Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	upper := strings.ToUpper(raw)
	if !strings.HasPrefix(upper, RolePrefix) {
		upper = RolePrefix + upper
	}
	return upper, true
}

// Parse converts a raw backend role into a Role. Anything unrecognised is RoleUnknown.
func Parse(raw string) Role {
	normalized, ok := Normalize(raw)
	if !ok {
		return RoleUnknown
	}
	switch normalized {
	case RolePrefix + Admin:
		return RoleAdmin
	case RolePrefix + Staff:
		return RoleStaff
	case RolePrefix + RiskAnalyst:
		return RoleRiskAnalyst
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return Admin
	case RoleStaff:
		return Staff
	case RoleRiskAnalyst:
		return RiskAnalyst
	default:
		return "UNKNOWN"
	}
}

// Canonical returns the prefixed form, or "" for RoleUnknown.
func (r Role) Canonical() string {
	if r == RoleUnknown {
		return ""
	}
	return RolePrefix + r.String()
}

// Known reports whether r is one of the three dashboard roles.
func (r Role) Known() bool {
	return r != RoleUnknown
}

// In reports whether r is one of allowed. RoleUnknown never matches, not even itself.
func (r Role) In(allowed ...Role) bool {
	if r == RoleUnknown {
		return false
	}
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// DefaultRoute returns the landing page for r.
func (r Role) DefaultRoute() (string, bool) {
	switch r {
	case RoleAdmin:
		return routes.AdminEmployees, true
	case RoleStaff:
		return routes.StaffCustomers, true
	case RoleRiskAnalyst:
		return routes.RiskDashboard, true
	default:
		return "", false
	}
}

// HasRole reports whether userRole matches at least one of allowed after normalization.
// An empty userRole never matches.
func HasRole(userRole string, allowed ...string) bool {
	normalizedUser, ok := Normalize(userRole)
	if !ok {
		return false
	}
	for _, a := range allowed {
		if normalizedAllowed, ok := Normalize(a); ok && normalizedAllowed == normalizedUser {
			return true
		}
	}
	return false
}

// DefaultRouteFor returns the landing page for a raw role, false for empty or unknown roles.
func DefaultRouteFor(raw string) (string, bool) {
	return Parse(raw).DefaultRoute()
}

func IsAdmin(raw string) bool {
	return HasRole(raw, Admin)
}

func IsStaff(raw string) bool {
	return HasRole(raw, Staff)
}

func IsRiskAnalyst(raw string) bool {
	return HasRole(raw, RiskAnalyst)
}

// BackRouteFromPrediction is where the prediction result page links back to.
// Analysts return to their dashboard, others to the customer when it is known.
func BackRouteFromPrediction(raw, customerID string) string {
	if IsRiskAnalyst(raw) {
		return routes.RiskDashboard
	}
	if customerID != "" {
		return routes.CustomerPath(customerID)
	}
	return routes.StaffCustomers
}

// BackRouteFromCustomer is where the customer detail page links back to.
func BackRouteFromCustomer(raw string) string {
	if IsStaff(raw) {
		return routes.StaffCustomers
	}
	return routes.RiskDashboard
}
