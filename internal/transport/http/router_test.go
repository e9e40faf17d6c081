package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	cataloghandler "biblio/internal/catalog/handler"
	catalogservice "biblio/internal/catalog/service"
	catalogstore "biblio/internal/catalog/store"
	"biblio/internal/identity/credentials"
	identityhandler "biblio/internal/identity/handler"
	identityservice "biblio/internal/identity/service"
	sessionstore "biblio/internal/identity/store/session"
	userstore "biblio/internal/identity/store/user"
	"biblio/internal/platform/metrics"
	"biblio/internal/platform/middleware"
	"biblio/internal/web"
	"biblio/pkg/platform/audit"
)

// RouterSuite drives the whole stack over httptest with in-memory stores.
type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	recorder := audit.NewRecorder(audit.NewInMemory(), logger)

	identitySvc := identityservice.New(
		userstore.NewInMemory(),
		sessionstore.NewInMemory(),
		credentials.NewHasher(1<<4),
		recorder,
		logger,
		m,
		time.Hour,
	)
	catalogSvc := catalogservice.New(catalogstore.NewInMemory(), recorder, logger, m)

	renderer, err := web.NewRenderer(logger)
	s.Require().NoError(err)

	s.router = NewRouter(Deps{
		Identity: identityhandler.New(identitySvc, renderer, time.Hour, false),
		Catalog:  cataloghandler.New(catalogSvc, renderer),
		Resolver: identitySvc,
		Renderer: renderer,
		Logger:   logger,
		Metrics:  m,
		Registry: registry,
		Timeout:  5 * time.Second,
	})
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie registers and logs in a user, returning the issued cookie.
func (s *RouterSuite) sessionCookie(username, password string) *http.Cookie {
	rec := s.post("/users/register", url.Values{"username": {username}, "password": {password}})
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	rec = s.post("/users/login", url.Values{"username": {username}, "password": {password}})
	s.Require().Equal(http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	s.Require().FailNow("no session cookie issued")
	return nil
}

func (s *RouterSuite) TestGateRedirects() {
	s.Run("anonymous catalog request redirects to login with return path", func() {
		rec := s.get("/catalog/books")
		s.Require().Equal(http.StatusFound, rec.Code)
		s.Equal("/users/login?redirect=%2Fcatalog%2Fbooks", rec.Header().Get("Location"))
	})

	s.Run("query strings survive the round trip", func() {
		rec := s.get("/catalog/books?page=2")
		s.Require().Equal(http.StatusFound, rec.Code)
		s.Equal("/users/login?redirect=%2Fcatalog%2Fbooks%3Fpage%3D2", rec.Header().Get("Location"))
	})

	s.Run("login and register pages are reachable anonymously", func() {
		s.Equal(http.StatusOK, s.get("/users/login").Code)
		s.Equal(http.StatusOK, s.get("/users/register").Code)
	})

	s.Run("healthz is exempt", func() {
		s.Equal(http.StatusOK, s.get("/healthz").Code)
	})
}

func (s *RouterSuite) TestRegisterAndLoginFlow() {
	s.Run("full flow grants access to protected pages", func() {
		cookie := s.sessionCookie("alice", "s3cret")

		rec := s.get("/catalog/books", cookie)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Book List")
	})

	s.Run("login failure is generic for wrong password and unknown user", func() {
		s.post("/users/register", url.Values{"username": {"bob"}, "password": {"pw"}})

		wrongPw := s.post("/users/login", url.Values{"username": {"bob"}, "password": {"nope"}})
		noUser := s.post("/users/login", url.Values{"username": {"ghost"}, "password": {"nope"}})

		s.Equal(http.StatusUnauthorized, wrongPw.Code)
		s.Equal(http.StatusUnauthorized, noUser.Code)
		s.Contains(wrongPw.Body.String(), "Invalid username or password")
		s.Contains(noUser.Body.String(), "Invalid username or password")
	})

	s.Run("registration rejects a taken username", func() {
		s.post("/users/register", url.Values{"username": {"carol"}, "password": {"pw"}})

		rec := s.post("/users/register", url.Values{"username": {"carol"}, "password": {"pw"}})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Contains(rec.Body.String(), "Username already used")
	})

	s.Run("login honors a relative redirect target", func() {
		s.post("/users/register", url.Values{"username": {"dave"}, "password": {"pw"}})

		rec := s.post("/users/login", url.Values{
			"username": {"dave"},
			"password": {"pw"},
			"redirect": {"/catalog/authors"},
		})
		s.Require().Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/catalog/authors", rec.Header().Get("Location"))
	})

	s.Run("login refuses an absolute redirect target", func() {
		s.post("/users/register", url.Values{"username": {"erin"}, "password": {"pw"}})

		rec := s.post("/users/login", url.Values{
			"username": {"erin"},
			"password": {"pw"},
			"redirect": {"https://evil.example"},
		})
		s.Require().Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/catalog", rec.Header().Get("Location"))
	})
}

func (s *RouterSuite) TestLogout() {
	s.Run("logout invalidates the session", func() {
		cookie := s.sessionCookie("alice", "s3cret")

		rec := s.post("/users/logout", nil, cookie)
		s.Require().Equal(http.StatusSeeOther, rec.Code)

		rec = s.get("/catalog/books", cookie)
		s.Equal(http.StatusFound, rec.Code)
		s.Contains(rec.Header().Get("Location"), "/users/login")
	})
}

func (s *RouterSuite) TestRootRedirect() {
	cookie := s.sessionCookie("alice", "s3cret")
	rec := s.get("/", cookie)
	s.Equal(http.StatusMovedPermanently, rec.Code)
	s.Equal("/catalog", rec.Header().Get("Location"))
}
