package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/riskdesk/auth"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/routes"
)

type loginForm struct {
	Email string
}

type signupForm struct {
	Email string
}

// IndexHandler sends each role to its landing page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.follow(w, r, s.guardFor(r).DecideHome()) {
			s.render(w, http.StatusOK, "home.html", s.newPage(r, "Welcome", nil))
		}
	}
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := s.newPage(r, "Log in", loginForm{})
		if r.URL.Query().Get("registered") != "" {
			page.Flash = "Account created, you can now log in"
		}
		s.render(w, http.StatusOK, "login.html", page)
	}
}

// LoginSubmissionHandler exchanges the submitted credentials for a session.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		page := s.newPage(r, "Log in", loginForm{Email: email})
		if email == "" || password == "" {
			page.Error = "Email and password are required"
			s.render(w, http.StatusBadRequest, "login.html", page)
			return
		}

		if err := s.manager.Login(r.Context(), email, password); err != nil {
			status := http.StatusBadGateway
			page.Error = "Login failed, please try again"
			var authErr *auth.AuthError
			if errs.As(err, &authErr) {
				page.Error = authErr.Message
				if authErr.Kind == auth.KindRejected {
					status = http.StatusUnauthorized
				}
			}
			s.logger.Info().Str("email", email).Err(err).Msg("Login failed")
			s.render(w, status, "login.html", page)
			return
		}

		s.setClientCookie(w)
		target := routes.Root
		if route, ok := s.manager.DefaultRoute(); ok {
			target = route
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// LogoutHandler ends the session held by this browser. Other clients only lose their cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.manager.Initializing() && s.ownsSession(r) {
			s.manager.Logout(r.Context())
		}
		clearClientCookie(w)
		http.Redirect(w, r, routes.Login, http.StatusSeeOther)
	}
}

func (s *Server) SignupPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "signup.html", s.newPage(r, "Sign up", signupForm{}))
	}
}

// SignupSubmissionHandler registers an account through the public signup endpoint.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("password_confirm")

		page := s.newPage(r, "Sign up", signupForm{Email: email})
		if email == "" || password == "" {
			page.Error = "Email and password are required"
			s.render(w, http.StatusBadRequest, "signup.html", page)
			return
		}
		if password != confirm {
			page.Error = "Passwords do not match"
			s.render(w, http.StatusBadRequest, "signup.html", page)
			return
		}

		if _, err := s.backend.Register(r.Context(), email, password, confirm); err != nil {
			status := http.StatusBadGateway
			page.Error = "Signup failed, please try again"
			if errs.Is(err, errs.ErrBadRequest) {
				status = http.StatusBadRequest
				page.Error = messageFor(err, "Please check the details and try again")
			}
			s.logger.Info().Str("email", email).Err(err).Msg("Signup failed")
			s.render(w, status, "signup.html", page)
			return
		}
		http.Redirect(w, r, routes.Login+"?registered=1", http.StatusSeeOther)
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.backend.CurrentProfile(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.render(w, http.StatusOK, "profile.html", s.newPage(r, "Profile", profile))
	}
}
