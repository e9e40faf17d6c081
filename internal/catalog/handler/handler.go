// Package handler serves the catalog pages: the home summary plus the list,
// detail, and create/update/delete forms for books, authors, genres, and
// copies.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biblio/internal/catalog/service"
	"biblio/internal/web"
)

type Handler struct {
	svc    *service.Service
	render *web.Renderer
}

func New(svc *service.Service, render *web.Renderer) *Handler {
	return &Handler{svc: svc, render: render}
}

// Routes is mounted at /catalog.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.home)

	r.Get("/books", h.bookList)
	r.Get("/book/create", h.bookCreateForm)
	r.Post("/book/create", h.bookCreate)
	r.Get("/book/{id}", h.bookDetail)
	r.Get("/book/{id}/update", h.bookUpdateForm)
	r.Post("/book/{id}/update", h.bookUpdate)
	r.Get("/book/{id}/delete", h.bookDeleteForm)
	r.Post("/book/{id}/delete", h.bookDelete)

	r.Get("/authors", h.authorList)
	r.Get("/author/create", h.authorCreateForm)
	r.Post("/author/create", h.authorCreate)
	r.Get("/author/{id}", h.authorDetail)
	r.Get("/author/{id}/update", h.authorUpdateForm)
	r.Post("/author/{id}/update", h.authorUpdate)
	r.Get("/author/{id}/delete", h.authorDeleteForm)
	r.Post("/author/{id}/delete", h.authorDelete)

	r.Get("/genres", h.genreList)
	r.Get("/genre/create", h.genreCreateForm)
	r.Post("/genre/create", h.genreCreate)
	r.Get("/genre/{id}", h.genreDetail)
	r.Get("/genre/{id}/update", h.genreUpdateForm)
	r.Post("/genre/{id}/update", h.genreUpdate)
	r.Get("/genre/{id}/delete", h.genreDeleteForm)
	r.Post("/genre/{id}/delete", h.genreDelete)

	r.Get("/copies", h.copyList)
	r.Get("/copy/create", h.copyCreateForm)
	r.Post("/copy/create", h.copyCreate)
	r.Get("/copy/{id}", h.copyDetail)
	r.Get("/copy/{id}/update", h.copyUpdateForm)
	r.Post("/copy/{id}/update", h.copyUpdate)
	r.Post("/copy/{id}/delete", h.copyDelete)

	return r
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Home(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "home", web.Page{Title: "Local Library Home", Data: counts})
}

// pathID parses the {id} route parameter; a malformed value is a 404, the
// same as an id that matches nothing.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.render.NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}
