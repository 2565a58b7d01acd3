package rbac_test

import (
	"testing"

	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("prefixed and plain forms agree", func(t *testing.T) {
		for _, raw := range []string{"ADMIN", "ROLE_ADMIN", "admin", "role_admin", "Role_Admin"} {
			got, ok := rbac.Normalize(raw)
			require.True(t, ok, raw)
			require.Equal(t, "ROLE_ADMIN", got, raw)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got, ok := rbac.Normalize("")
		require.False(t, ok)
		require.Empty(t, got)
	})

	t.Run("unknown input is normalized mechanically", func(t *testing.T) {
		got, ok := rbac.Normalize("auditor")
		require.True(t, ok)
		require.Equal(t, "ROLE_AUDITOR", got)
		require.Equal(t, rbac.RoleUnknown, rbac.Parse("auditor"))
	})
}

func TestParse(t *testing.T) {
	require.Equal(t, rbac.RoleAdmin, rbac.Parse("ROLE_ADMIN"))
	require.Equal(t, rbac.RoleStaff, rbac.Parse("staff"))
	require.Equal(t, rbac.RoleRiskAnalyst, rbac.Parse("RISK_ANALYST"))
	require.Equal(t, rbac.RoleUnknown, rbac.Parse(""))
	require.Equal(t, rbac.RoleUnknown, rbac.Parse("ROLE_"))

	require.Equal(t, "ROLE_RISK_ANALYST", rbac.RoleRiskAnalyst.Canonical())
	require.Empty(t, rbac.RoleUnknown.Canonical())
	require.Equal(t, "UNKNOWN", rbac.RoleUnknown.String())
}

func TestHasRole(t *testing.T) {
	t.Run("single allowed role", func(t *testing.T) {
		require.True(t, rbac.HasRole("ROLE_STAFF", "STAFF"))
		require.False(t, rbac.HasRole("ROLE_STAFF", "ADMIN"))
	})

	t.Run("list of allowed roles", func(t *testing.T) {
		require.True(t, rbac.HasRole("risk_analyst", rbac.Staff, rbac.RiskAnalyst))
		require.False(t, rbac.HasRole("ADMIN", rbac.Staff, rbac.RiskAnalyst))
	})

	t.Run("unset role never matches", func(t *testing.T) {
		require.False(t, rbac.HasRole("", "ADMIN"))
		require.False(t, rbac.HasRole("", ""))
		require.False(t, rbac.HasRole("", rbac.Admin, rbac.Staff, rbac.RiskAnalyst))
	})

	t.Run("no allowed roles", func(t *testing.T) {
		require.False(t, rbac.HasRole("ADMIN"))
	})

	t.Run("typed membership", func(t *testing.T) {
		require.True(t, rbac.RoleAdmin.In(rbac.RoleStaff, rbac.RoleAdmin))
		require.False(t, rbac.RoleUnknown.In(rbac.RoleUnknown))
	})
}

func TestDefaultRouteFor(t *testing.T) {
	cases := map[string]string{
		"ADMIN":             routes.AdminEmployees,
		"ROLE_STAFF":        routes.StaffCustomers,
		"ROLE_RISK_ANALYST": routes.RiskDashboard,
	}
	for raw, want := range cases {
		got, ok := rbac.DefaultRouteFor(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "GUEST", "ROLE_"} {
		got, ok := rbac.DefaultRouteFor(raw)
		require.False(t, ok, raw)
		require.Empty(t, got, raw)
	}
}

func TestBackRoutes(t *testing.T) {
	require.Equal(t, routes.RiskDashboard, rbac.BackRouteFromPrediction("RISK_ANALYST", "c-1"))
	require.Equal(t, "/customers/c-1", rbac.BackRouteFromPrediction("STAFF", "c-1"))
	require.Equal(t, routes.StaffCustomers, rbac.BackRouteFromPrediction("STAFF", ""))

	require.Equal(t, routes.StaffCustomers, rbac.BackRouteFromCustomer("ROLE_STAFF"))
	require.Equal(t, routes.RiskDashboard, rbac.BackRouteFromCustomer("ROLE_RISK_ANALYST"))
}
