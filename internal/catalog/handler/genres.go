package handler

import (
	"net/http"

	"biblio/internal/web"
)

func (h *Handler) genreList(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Genres(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "genre_list", web.Page{Title: "Genre List", Data: genres})
}

func (h *Handler) genreDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GenreDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "genre_detail", web.Page{Title: "Genre: " + detail.Genre.Name, Data: detail})
}

func (h *Handler) genreCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "genre_form", web.Page{Title: "Create Genre"})
}

func (h *Handler) genreCreate(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	name := r.PostFormValue("name")
	id, errs, err := h.svc.CreateGenre(r.Context(), name)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "genre_form", web.Page{
			Title:  "Create Genre",
			Errors: errs.Messages(),
			Form:   map[string]string{"name": name},
		})
		return
	}
	http.Redirect(w, r, "/catalog/genre/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) genreUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GenreDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "genre_form", web.Page{
		Title: "Update Genre",
		Form:  map[string]string{"name": detail.Genre.Name},
	})
}

func (h *Handler) genreUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	_ = r.ParseForm()
	name := r.PostFormValue("name")
	errs, err := h.svc.UpdateGenre(r.Context(), id, name)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "genre_form", web.Page{
			Title:  "Update Genre",
			Errors: errs.Messages(),
			Form:   map[string]string{"name": name},
		})
		return
	}
	http.Redirect(w, r, "/catalog/genre/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) genreDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GenreDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "genre_delete", web.Page{Title: "Delete Genre", Data: detail})
}

func (h *Handler) genreDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	blocking, err := h.svc.DeleteGenre(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if len(blocking) > 0 {
		detail, err := h.svc.GenreDetail(r.Context(), id)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusConflict, "genre_delete", web.Page{Title: "Delete Genre", Data: detail})
		return
	}
	http.Redirect(w, r, "/catalog/genres", http.StatusSeeOther)
}
