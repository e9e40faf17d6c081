package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"biblio/internal/platform/metrics"
	"biblio/pkg/requestcontext"
)

// SessionCookie names the cookie that carries the opaque session token.
const SessionCookie = "biblio_session"

// SessionResolver maps a session token to its principal. Absent, expired, or
// dangling sessions resolve to (zero, false, nil); only infrastructure
// failures return an error.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (requestcontext.Principal, bool, error)
}

// Exempt paths bypass the gate unconditionally so the login flow itself is
// reachable. Everything else requires an authenticated session.
var gateExempt = map[string]struct{}{
	"/users/login":    {},
	"/users/register": {},
	"/healthz":        {},
	"/metrics":        {},
}

func gateExemptPath(path string) bool {
	if _, ok := gateExempt[path]; ok {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// RequireSession is the authentication gate. It resolves the session cookie
// once per request; authenticated requests proceed with the principal in
// context, everything else is redirected to login carrying the originally
// requested path so the flow can resume afterwards.
func RequireSession(resolver SessionResolver, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gateExemptPath(r.URL.Path) {
				// Still resolve the principal so login/register pages can
				// show who is signed in; a resolver failure here is not
				// fatal for exempt paths.
				if cookie, err := r.Cookie(SessionCookie); err == nil {
					if p, ok, err := resolver.Resolve(r.Context(), cookie.Value); err == nil && ok {
						r = r.WithContext(requestcontext.WithPrincipal(r.Context(), p))
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			token := ""
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			principal, ok, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.ErrorContext(r.Context(), "session resolution failed",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !ok {
				m.GateRedirectsTotal.Inc()
				target := "/users/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithPrincipal(r.Context(), principal)))
		})
	}
}
