package server

import (
	"net/http"

	"github.com/jrsteele09/riskdesk/guard"
)

// RequireRoles gates a page on the session. With no roles any logged in user may see it.
// Only the browser that logged in counts as logged in.
func (s *Server) RequireRoles(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.follow(w, r, s.guardFor(r).Decide(r.URL.Path, roles...)) {
				next(w, r)
			}
		}
	}
}

// GuestOnly sends logged in users away from the login and signup pages.
func (s *Server) GuestOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.follow(w, r, s.guardFor(r).DecideGuest(r.URL.Path)) {
			next(w, r)
		}
	}
}

// follow carries out a decision and reports whether the page should render.
func (s *Server) follow(w http.ResponseWriter, r *http.Request, d guard.Decision) bool {
	switch d.Action {
	case guard.Render:
		return true
	case guard.Redirect:
		http.Redirect(w, r, d.Path, http.StatusSeeOther)
	default:
		s.renderLoading(w)
	}
	return false
}

// feedDecision gates the live feed, which cannot follow redirects.
func (s *Server) feedDecision(w http.ResponseWriter, r *http.Request, roles ...string) bool {
	d := s.guardFor(r).Decide(r.URL.Path, roles...)
	switch {
	case d.Action == guard.Render:
		return true
	case d.Action == guard.Hold:
		w.Header().Set("Retry-After", "1")
		http.Error(w, "starting up", http.StatusServiceUnavailable)
	case !s.ownsSession(r):
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
	}
	return false
}
