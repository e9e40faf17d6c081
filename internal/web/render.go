// Package web renders the HTML pages. Templates are embedded so the binary
// is self-contained; each page shares the base layout.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/requestcontext"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageNames = []string{
	"home", "register", "login",
	"author_list", "author_detail", "author_form", "author_delete",
	"genre_list", "genre_detail", "genre_form", "genre_delete",
	"book_list", "book_detail", "book_form", "book_delete",
	"copy_list", "copy_detail", "copy_form",
	"error",
}

// Page is the envelope every template receives.
type Page struct {
	Title string
	// User is the signed-in principal, filled from the request context.
	User *requestcontext.Principal
	// Errors holds the messages shown above a re-rendered form.
	Errors []string
	// Form holds submitted values for sticky re-display.
	Form map[string]string
	// Redirect is threaded through the login form.
	Redirect string
	Data     any
}

// FormValue returns a submitted value for sticky inputs.
func (p Page) FormValue(name string) string {
	if p.Form == nil {
		return ""
	}
	return p.Form[name]
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("base.tmpl").Funcs(funcs).
			ParseFS(templateFS, "templates/base.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// HTML renders a page. The template executes into a buffer first so a broken
// template yields a clean 500 instead of a half-written body.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tpl, ok := rd.pages[name]
	if !ok {
		rd.logger.ErrorContext(r.Context(), "unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if page.User == nil {
		if p, ok := requestcontext.PrincipalFrom(r.Context()); ok {
			page.User = &p
		}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		rd.logger.ErrorContext(r.Context(), "template execution failed",
			"template", name,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page with the status derived from the domain code.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		rd.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	rd.HTML(w, r, status, "error", Page{
		Title: "Error",
		Data:  dErrors.Message(err),
	})
}

// NotFound renders the 404 page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.HTML(w, r, http.StatusNotFound, "error", Page{
		Title: "Not Found",
		Data:  "The page you requested does not exist.",
	})
}
