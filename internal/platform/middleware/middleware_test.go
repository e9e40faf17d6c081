package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"biblio/internal/platform/metrics"
	"biblio/pkg/requestcontext"
)

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) TestRequestID() {
	s.Run("generates an ID and echoes it back", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		s.NotEmpty(seen)
		s.Equal(seen, rec.Header().Get("X-Request-ID"))
	})

	s.Run("keeps a caller-supplied ID", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		h.ServeHTTP(httptest.NewRecorder(), req)

		s.Equal("caller-id", seen)
	})
}

func (s *MiddlewareSuite) TestRequestTime() {
	var seen time.Time
	h := RequestTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Now(r.Context())
	}))

	before := time.Now()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	s.False(seen.Before(before))
	s.False(seen.After(time.Now()))
}

func (s *MiddlewareSuite) TestRecovery() {
	h := Recovery(s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	s.NotPanics(func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *MiddlewareSuite) TestClientMetadata() {
	var ip, ua string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("User-Agent", "test-agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	s.Equal("203.0.113.9", ip)
	s.Equal("test-agent", ua)
}

type stubResolver struct {
	principal requestcontext.Principal
	ok        bool
	err       error
}

func (r stubResolver) Resolve(_ context.Context, _ string) (requestcontext.Principal, bool, error) {
	return r.principal, r.ok, r.err
}

func (s *MiddlewareSuite) TestGate() {
	m := metrics.New(prometheus.NewRegistry())

	s.Run("unauthenticated requests are redirected with the return path", func() {
		gate := RequireSession(stubResolver{}, s.logger, m)
		h := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/books", nil))

		s.Equal(http.StatusFound, rec.Code)
		s.Equal("/users/login?redirect=%2Fcatalog%2Fbooks", rec.Header().Get("Location"))
	})

	s.Run("authenticated requests pass with the principal attached", func() {
		principal := requestcontext.Principal{Username: "alice"}
		gate := RequireSession(stubResolver{principal: principal, ok: true}, s.logger, m)

		var seen requestcontext.Principal
		h := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = requestcontext.PrincipalFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/catalog/books", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "token"})
		h.ServeHTTP(httptest.NewRecorder(), req)

		s.Equal("alice", seen.Username)
	})

	s.Run("exempt paths bypass the gate", func() {
		gate := RequireSession(stubResolver{}, s.logger, m)
		h := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/login", nil))
		s.Equal(http.StatusOK, rec.Code)
	})
}
