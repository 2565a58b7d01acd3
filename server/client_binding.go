package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/jrsteele09/riskdesk/guard"
	"github.com/jrsteele09/riskdesk/routes"
)

// ClientCookie binds the single dashboard session to the browser that logged in.
const ClientCookie = "riskdesk_client"

const clientKeyLabel = "riskdesk dashboard client"

// clientKey derives the cookie value from the access token, so a session restored after
// a restart still belongs to the browser that created it.
func clientKey(accessToken string) string {
	mac := hmac.New(sha256.New, []byte(accessToken))
	mac.Write([]byte(clientKeyLabel))
	return hex.EncodeToString(mac.Sum(nil))
}

// ownsSession reports whether r comes from the browser holding the current session.
func (s *Server) ownsSession(r *http.Request) bool {
	token := s.manager.AccessToken()
	if token == "" {
		return false
	}
	cookie, err := r.Cookie(ClientCookie)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(cookie.Value), []byte(clientKey(token)))
}

func (s *Server) setClientCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    clientKey(s.manager.AccessToken()),
		Path:     routes.Root,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearClientCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    "",
		Path:     routes.Root,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clientSession is the session as one request sees it. A client without the session's
// cookie sees no session at all.
type clientSession struct {
	server  *Server
	request *http.Request
}

var _ guard.SessionView = clientSession{}

func (c clientSession) State() guard.State {
	state := c.server.manager.State()
	if state.Authenticated() && !c.server.ownsSession(c.request) {
		return guard.Unauthenticated()
	}
	return state
}

// guardFor returns the route guard for the client making r.
func (s *Server) guardFor(r *http.Request) *guard.Guard {
	return s.guard.WithSession(clientSession{server: s, request: r})
}
