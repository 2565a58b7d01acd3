package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/jrsteele09/riskdesk/auth"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/jrsteele09/riskdesk/sessions"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	session *sessions.AuthSession
}

func (s staticSource) Session() *sessions.AuthSession { return s.session }

func staffSession() *sessions.AuthSession {
	return &sessions.AuthSession{
		UserID:      "staff-1",
		Email:       "staff@example.com",
		Role:        "ROLE_STAFF",
		AccessToken: "staff-token",
		TokenType:   "Bearer",
	}
}

// recordedRequest is what the fake backend saw.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type fakeBackend struct {
	*httptest.Server
	lock     sync.Mutex
	requests []recordedRequest
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.lock.Lock()
		fb.requests = append(fb.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: string(body)})
		fb.lock.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) Requests() []recordedRequest {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, baseURL string) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(baseURL, apiclient.WithRequestIDs(func() string { return "req-1" }))
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c, err := apiclient.New("")
	require.NoError(t, err)
	require.Equal(t, apiclient.DefaultBaseURL, c.BaseURL())

	c, err = apiclient.New("http://backend/api/")
	require.NoError(t, err)
	require.Equal(t, "http://backend/api", c.BaseURL())

	_, err = apiclient.New("ftp://backend")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"userId": "staff-1", "email": "staff@example.com", "role": "ROLE_STAFF",
				"accessToken": "staff-token", "refreshToken": "r", "tokenType": "Bearer",
			})
		})
		c := newClient(t, backend.URL)

		session, err := c.Login(ctx, "staff@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, "staff-token", session.AccessToken)
		require.Equal(t, "ROLE_STAFF", session.Role)

		reqs := backend.Requests()
		require.Len(t, reqs, 1)
		require.Equal(t, http.MethodPost, reqs[0].Method)
		require.Equal(t, "/auth/login", reqs[0].Path)
		require.JSONEq(t, `{"email":"staff@example.com","password":"pw"}`, reqs[0].Body)
		require.Equal(t, "req-1", reqs[0].Header.Get("X-Request-Id"))
		require.Empty(t, reqs[0].Header.Get("Authorization"))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		})
		c := newClient(t, backend.URL)

		_, err := c.Login(ctx, "staff@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)

		var statusErr *apiclient.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, "Bad credentials", statusErr.UserMessage())
	})

	t.Run("server error is not a credential refusal", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		})
		c := newClient(t, backend.URL)

		_, err := c.Login(ctx, "staff@example.com", "pw")
		require.Error(t, err)
		require.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Logged out")
	})
	c := newClient(t, backend.URL)

	require.NoError(t, c.Logout(context.Background(), "staff-token"))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "/auth/logout", reqs[0].Path)
	require.Equal(t, "Bearer staff-token", reqs[0].Header.Get("Authorization"))
}

func TestSessionClient_Headers(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"predictionId": "p1", "status": "PENDING"})
	})
	api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

	_, err := api.GetPrediction(context.Background(), "p1")
	require.NoError(t, err)

	header := backend.Requests()[0].Header
	require.Equal(t, "Bearer staff-token", header.Get("Authorization"))
	require.Equal(t, "ROLE_STAFF", header.Get("X-User-Role"))
	require.Equal(t, "staff-1", header.Get("X-User-Id"))
	require.Equal(t, "req-1", header.Get("X-Request-Id"))
}

func TestSessionClient_NotAuthenticated(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	api := newClient(t, backend.URL).WithSession(staticSource{})

	_, err := api.ListCustomers(context.Background())
	require.ErrorIs(t, err, errs.ErrNotAuthenticated)
	require.Empty(t, backend.Requests())
}

func TestCreatePrediction(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the job", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]string{"predictionId": "p9", "status": "PENDING", "customerId": "c1"})
		})
		api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

		job, err := api.CreatePrediction(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, "p9", job.PredictionID)
		require.Equal(t, predictions.StatusPending, job.Status)
		require.JSONEq(t, `{"customerId":"c1"}`, backend.Requests()[0].Body)
	})

	t.Run("missing predictionId", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "PENDING"})
		})
		api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

		_, err := api.CreatePrediction(ctx, "c1")
		require.ErrorIs(t, err, errs.ErrMissingPredictionID)
	})

	t.Run("non JSON body", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html>proxy login</html>")
		})
		api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

		_, err := api.CreatePrediction(ctx, "c1")
		require.ErrorIs(t, err, errs.ErrInvalidResponse)
	})
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, errs.ErrBadRequest},
		{http.StatusUnauthorized, errs.ErrSessionExpired},
		{http.StatusForbidden, errs.ErrForbidden},
		{http.StatusNotFound, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"error": "nope"})
			})
			api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

			_, err := api.GetCustomer(context.Background(), "c1")
			require.ErrorIs(t, err, tt.want)

			var statusErr *apiclient.StatusError
			require.ErrorAs(t, err, &statusErr)
			require.Equal(t, tt.status, statusErr.StatusCode)
			require.Equal(t, "nope", statusErr.Message)
		})
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	admin := &sessions.AuthSession{UserID: "admin-1", Role: "ADMIN", AccessToken: "admin-token"}

	t.Run("sends the prefixed role", func(t *testing.T) {
		backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, "User created successfully\n")
		})
		api := newClient(t, backend.URL).WithSession(staticSource{session: admin})

		msg, err := api.Signup(ctx, apiclient.SignupRequest{Email: "new@example.com", Password: "pw", PasswordConfirm: "pw", Role: "STAFF"})
		require.NoError(t, err)
		require.Equal(t, "User created successfully", msg)

		req := backend.Requests()[0]
		require.Equal(t, "/auth/signup", req.Path)
		require.JSONEq(t, `{"email":"new@example.com","password":"pw","passwordConfirm":"pw","role":"ROLE_STAFF"}`, req.Body)
		require.Equal(t, "Bearer admin-token", req.Header.Get("Authorization"))
	})

	t.Run("refuses admin role locally", func(t *testing.T) {
		api := newClient(t, "http://127.0.0.1:1").WithSession(staticSource{session: admin})
		_, err := api.Signup(ctx, apiclient.SignupRequest{Email: "x@example.com", Password: "pw", PasswordConfirm: "pw", Role: "ADMIN"})
		require.ErrorIs(t, err, errs.ErrBadRequest)
	})

	t.Run("maps backend refusals", func(t *testing.T) {
		for status, want := range map[int]error{
			http.StatusUnauthorized: errs.ErrSessionExpired,
			http.StatusForbidden:    errs.ErrForbidden,
			http.StatusBadRequest:   errs.ErrBadRequest,
		} {
			backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "refused", status)
			})
			api := newClient(t, backend.URL).WithSession(staticSource{session: admin})
			_, err := api.Signup(ctx, apiclient.SignupRequest{Email: "x@example.com", Password: "pw", PasswordConfirm: "pw", Role: "RISK_ANALYST"})
			require.ErrorIs(t, err, want)
		}
	})
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/customers/approved":
			w.Header().Set("Content-Type", "application/json")
		case "/customers/staff/staff-1":
			writeJSON(w, http.StatusOK, []map[string]any{{"customerId": "c1", "fullName": "Ada", "income": 120.5, "online": true}})
		case "/predictions/employee/me":
			writeJSON(w, http.StatusOK, []map[string]any{{"predictionId": "p1", "predictionStatus": "COMPLETED", "predictionResult": true, "confidence": 0.7}})
		case "/users-profiles/me":
			writeJSON(w, http.StatusOK, map[string]any{"userId": "staff-1", "fullName": "Sam", "isActive": true})
		case "/analystics/stat/date-range/from=2026-01-01&to=2026-01-31":
			writeJSON(w, http.StatusOK, map[string]any{"total": 4})
		default:
			http.NotFound(w, r)
		}
	})
	api := newClient(t, backend.URL).WithSession(staticSource{session: staffSession()})

	approved, err := api.ListCustomersByDecision(ctx, apiclient.DecisionApproved)
	require.NoError(t, err)
	require.NotNil(t, approved)
	require.Empty(t, approved)

	_, err = api.ListCustomersByDecision(ctx, "maybe")
	require.ErrorIs(t, err, errs.ErrBadRequest)

	mine, err := api.ListCustomersByStaff(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Ada", mine[0].FullName)
	require.InDelta(t, 120.5, *mine[0].Income, 0.001)
	require.True(t, mine[0].Online)

	jobs, err := api.ListMyPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "Approve", jobs[0].ResultLabel())

	profile, err := api.CurrentProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Sam", profile.FullName)

	stats, err := api.StatDateRange(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.EqualValues(t, 4, stats["total"])
}

func TestRateLimit(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	c, err := apiclient.New(backend.URL, apiclient.WithRateLimit(1))
	require.NoError(t, err)
	api := c.WithSession(staticSource{session: staffSession()})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = api.ListEmployees(ctx)
	require.NoError(t, err)
	_, err = api.ListEmployees(ctx)
	require.Error(t, err)
	require.Len(t, backend.Requests(), 1)
}

func TestRegister(t *testing.T) {
	backend := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Signup successful for user: new@example.com")
	})
	c := newClient(t, backend.URL)

	msg, err := c.Register(context.Background(), "new@example.com", "pw", "pw")
	require.NoError(t, err)
	require.Equal(t, "Signup successful for user: new@example.com", msg)
	require.Empty(t, backend.Requests()[0].Header.Get("Authorization"))

	_, err = c.Register(context.Background(), "new@example.com", "pw", "other")
	require.ErrorIs(t, err, errs.ErrBadRequest)
	require.Len(t, backend.Requests(), 1)
}
