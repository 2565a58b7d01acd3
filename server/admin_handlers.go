package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/riskdesk/apiclient"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
)

type roleOption struct {
	Value string
	Label string
}

// createUserForm backs the account creation page for administrators.
type createUserForm struct {
	Email string
	Role  string
	Roles []roleOption
}

func signupRoleOptions() []roleOption {
	options := make([]roleOption, 0, len(rbac.SignupRoles))
	for _, role := range rbac.SignupRoles {
		options = append(options, roleOption{Value: role.String(), Label: strings.ReplaceAll(role.String(), "_", " ")})
	}
	return options
}

// AdminEmployeesHandler lists every employee profile.
func (s *Server) AdminEmployeesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := s.backend.ListEmployees(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.render(w, http.StatusOK, "employees.html", s.newPage(r, "Employees", employees))
	}
}

func (s *Server) AdminEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employee, err := s.backend.GetEmployee(r.Context(), r.PathValue("userId"))
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.render(w, http.StatusOK, "employee_edit.html", s.newPage(r, "Edit employee", employee))
	}
}

// AdminEmployeeUpdateHandler saves the edit form and returns to the employee list.
func (s *Server) AdminEmployeeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		userID := r.PathValue("userId")
		employee := apiclient.Employee{
			UserID:      userID,
			FullName:    strings.TrimSpace(r.FormValue("fullName")),
			Email:       strings.TrimSpace(r.FormValue("email")),
			Department:  strings.TrimSpace(r.FormValue("department")),
			Position:    strings.TrimSpace(r.FormValue("position")),
			HireDate:    strings.TrimSpace(r.FormValue("hireDate")),
			PhoneNumber: strings.TrimSpace(r.FormValue("phoneNumber")),
			Address:     strings.TrimSpace(r.FormValue("address")),
			IsActive:    r.FormValue("isActive") != "",
		}
		if employee.FullName == "" || employee.Email == "" {
			page := s.newPage(r, "Edit employee", &employee)
			page.Error = "Full name and email are required"
			s.render(w, http.StatusBadRequest, "employee_edit.html", page)
			return
		}

		if _, err := s.backend.UpdateEmployee(r.Context(), userID, employee); err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		http.Redirect(w, r, routes.AdminEmployees, http.StatusSeeOther)
	}
}

func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "users.html", s.newPage(r, "Create user", createUserForm{Roles: signupRoleOptions()}))
	}
}

// AdminUsersCreateHandler creates an account with one of the assignable roles.
func (s *Server) AdminUsersCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		in := apiclient.SignupRequest{
			Email:           strings.TrimSpace(r.FormValue("email")),
			Password:        r.FormValue("password"),
			PasswordConfirm: r.FormValue("password_confirm"),
			Role:            r.FormValue("role"),
		}
		form := createUserForm{Email: in.Email, Role: in.Role, Roles: signupRoleOptions()}
		page := s.newPage(r, "Create user", form)

		switch {
		case in.Email == "" || in.Password == "":
			page.Error = "Email and password are required"
		case in.Password != in.PasswordConfirm:
			page.Error = "Passwords do not match"
		case !rbac.Parse(in.Role).In(rbac.SignupRoles...):
			page.Error = "Choose a role for the new account"
		}
		if page.Error != "" {
			s.render(w, http.StatusBadRequest, "users.html", page)
			return
		}

		confirmation, err := s.backend.Signup(r.Context(), in)
		if err != nil {
			if errs.Is(err, errs.ErrBadRequest) {
				page.Error = messageFor(err, "The account could not be created")
				s.render(w, http.StatusBadRequest, "users.html", page)
				return
			}
			s.handleBackendError(w, r, err)
			return
		}

		s.logger.Info().Str("email", in.Email).Str("role", in.Role).Msg("Account created")
		page = s.newPage(r, "Create user", createUserForm{Roles: signupRoleOptions()})
		page.Flash = "Account created for " + in.Email
		if confirmation != "" {
			page.Flash = confirmation
		}
		s.render(w, http.StatusOK, "users.html", page)
	}
}
