package cli

import (
	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.sys.Manager.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			a.printf("Logged in as %s (%s)\n", a.sys.Manager.Email(), a.sys.Manager.ParsedRole())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.sys.Manager.Logout(cmd.Context())
			a.printf("Logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m := a.sys.Manager
			if !m.IsAuthenticated() {
				a.printf("Not logged in\n")
				return nil
			}
			a.printf("%s\nrole: %s\nuser: %s\n", m.Email(), m.ParsedRole(), m.UserID())
			if route, ok := m.DefaultRoute(); ok {
				a.printf("home: %s\n", route)
			}
			return nil
		},
	}
}

// newSignupCmd creates accounts as an administrator.
func newSignupCmd(a *app) *cobra.Command {
	var in apiclient.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a STAFF or RISK_ANALYST account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if in.PasswordConfirm == "" {
				in.PasswordConfirm = in.Password
			}
			confirmation, err := a.sys.API.Signup(cmd.Context(), in)
			if err != nil {
				return err
			}
			if confirmation == "" {
				confirmation = "Account created for " + in.Email
			}
			a.printf("%s\n", confirmation)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "new account email (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "new account password (required)")
	cmd.Flags().StringVar(&in.PasswordConfirm, "password-confirm", "", "password confirmation, defaults to --password")
	cmd.Flags().StringVar(&in.Role, "role", "", "STAFF or RISK_ANALYST (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
