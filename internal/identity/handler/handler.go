// Package handler exposes the registration, login, and logout pages.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"biblio/internal/identity/service"
	"biblio/internal/platform/middleware"
	"biblio/internal/web"
	dErrors "biblio/pkg/domain-errors"
)

const defaultRedirect = "/catalog"

type Handler struct {
	svc          *service.Service
	render       *web.Renderer
	sessionTTL   time.Duration
	cookieSecure bool
}

func New(svc *service.Service, render *web.Renderer, sessionTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		svc:          svc,
		render:       render,
		sessionTTL:   sessionTTL,
		cookieSecure: cookieSecure,
	}
}

// Routes is mounted at /users.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "register", web.Page{Title: "Register"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, dErrors.New(dErrors.CodeInvalidInput, "malformed form submission"))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	errs, err := h.svc.Register(r.Context(), username, password)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "register", web.Page{
			Title:  "Register",
			Errors: errs.Messages(),
			Form:   map[string]string{"username": username},
		})
		return
	}
	http.Redirect(w, r, "/users/login", http.StatusSeeOther)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "login", web.Page{
		Title:    "Log in",
		Redirect: sanitizeRedirect(r.URL.Query().Get("redirect")),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, dErrors.New(dErrors.CodeInvalidInput, "malformed form submission"))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	redirect := sanitizeRedirect(r.PostFormValue("redirect"))

	sess, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.render.HTML(w, r, http.StatusUnauthorized, "login", web.Page{
				Title:    "Log in",
				Errors:   []string{dErrors.Message(err)},
				Form:     map[string]string{"username": username},
				Redirect: redirect,
			})
			return
		}
		h.render.Error(w, r, err)
		return
	}

	// The session is already persisted; the cookie and redirect follow.
	http.SetCookie(w, h.sessionCookie(sess.Token, h.sessionTTL))
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.render.Error(w, r, err)
			return
		}
	}
	http.SetCookie(w, h.sessionCookie("", -time.Hour))
	http.Redirect(w, r, "/users/login", http.StatusSeeOther)
}

func (h *Handler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sanitizeRedirect keeps post-login redirects on this site: relative paths
// only, nothing that a browser would treat as scheme-relative.
func sanitizeRedirect(raw string) string {
	if raw == "" {
		return defaultRedirect
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return defaultRedirect
	}
	return raw
}
