package server

import (
	"net/http"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/routes"
)

// userMessage is implemented by backend errors that carry text fit for the page.
type userMessage interface {
	UserMessage() string
}

func messageFor(err error, fallback string) string {
	var um userMessage
	if errs.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

// handleBackendError turns a failed backend call into a page. An expired session
// ends the local session too, so the guard sends the user to log in again.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errs.Is(err, errs.ErrSessionExpired), errs.Is(err, errs.ErrNotAuthenticated):
		s.logger.Info().Err(err).Msg("Backend refused the session, logging out")
		s.manager.Logout(r.Context())
		http.Redirect(w, r, routes.Login, http.StatusSeeOther)
	case errs.Is(err, errs.ErrForbidden):
		s.renderError(w, r, http.StatusForbidden, messageFor(err, "You do not have permission to do that"))
	case errs.Is(err, errs.ErrNotFound):
		s.renderError(w, r, http.StatusNotFound, messageFor(err, "Not found"))
	case errs.Is(err, errs.ErrBadRequest):
		s.renderError(w, r, http.StatusBadRequest, messageFor(err, "The request was rejected"))
	default:
		s.logger.Err(err).Str("path", r.URL.Path).Msg("Backend call failed")
		s.renderError(w, r, http.StatusBadGateway, "The loan service is unavailable, please try again")
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := s.newPage(r, http.StatusText(status), nil)
	page.Error = message
	s.render(w, status, "error.html", page)
}
