package handler

import (
	"context"
	"net/http"
	"strings"

	"biblio/internal/catalog/models"
	"biblio/internal/catalog/service"
	"biblio/internal/web"
)

func (h *Handler) bookList(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.Books(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "book_list", web.Page{Title: "Book List", Data: books})
}

func (h *Handler) bookDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.BookDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "book_detail", web.Page{Title: detail.Book.Title, Data: detail})
}

func (h *Handler) bookCreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.bookForm(r.Context(), nil)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "book_form", web.Page{Title: "Create Book", Data: data})
}

func (h *Handler) bookCreate(w http.ResponseWriter, r *http.Request) {
	in, form := bookFormValues(r)
	id, errs, err := h.svc.CreateBook(r.Context(), in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		data, err := h.bookForm(r.Context(), in.GenreIDs)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "book_form", web.Page{
			Title:  "Create Book",
			Errors: errs.Messages(),
			Form:   form,
			Data:   data,
		})
		return
	}
	http.Redirect(w, r, "/catalog/book/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) bookUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.BookDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	selected := make([]string, 0, len(detail.Book.GenreIDs))
	for _, gid := range detail.Book.GenreIDs {
		selected = append(selected, gid.String())
	}
	data, err := h.bookForm(r.Context(), selected)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "book_form", web.Page{
		Title: "Update Book",
		Form:  bookToForm(detail.Book),
		Data:  data,
	})
}

func (h *Handler) bookUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, form := bookFormValues(r)
	errs, err := h.svc.UpdateBook(r.Context(), id, in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		data, err := h.bookForm(r.Context(), in.GenreIDs)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "book_form", web.Page{
			Title:  "Update Book",
			Errors: errs.Messages(),
			Form:   form,
			Data:   data,
		})
		return
	}
	http.Redirect(w, r, "/catalog/book/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) bookDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.BookDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "book_delete", web.Page{Title: "Delete Book", Data: detail})
}

func (h *Handler) bookDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	blocking, err := h.svc.DeleteBook(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if len(blocking) > 0 {
		detail, err := h.svc.BookDetail(r.Context(), id)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusConflict, "book_delete", web.Page{Title: "Delete Book", Data: detail})
		return
	}
	http.Redirect(w, r, "/catalog/books", http.StatusSeeOther)
}

// bookForm loads the select options and marks the given genre ids as ticked.
func (h *Handler) bookForm(ctx context.Context, selectedGenres []string) (web.BookForm, error) {
	authors, err := h.svc.Authors(ctx)
	if err != nil {
		return web.BookForm{}, err
	}
	genres, err := h.svc.Genres(ctx)
	if err != nil {
		return web.BookForm{}, err
	}
	selected := make(map[string]bool, len(selectedGenres))
	for _, gid := range selectedGenres {
		selected[gid] = true
	}
	return web.BookForm{Authors: authors, Genres: genres, Selected: selected}, nil
}

func bookFormValues(r *http.Request) (service.BookInput, map[string]string) {
	_ = r.ParseForm()
	in := service.BookInput{
		Title:    r.PostFormValue("title"),
		AuthorID: r.PostFormValue("author"),
		Summary:  r.PostFormValue("summary"),
		ISBN:     r.PostFormValue("isbn"),
		GenreIDs: r.PostForm["genre"],
	}
	return in, map[string]string{
		"title":   in.Title,
		"author":  in.AuthorID,
		"summary": in.Summary,
		"isbn":    in.ISBN,
		"genre":   strings.Join(in.GenreIDs, ","),
	}
}

func bookToForm(b models.Book) map[string]string {
	return map[string]string{
		"title":   b.Title,
		"author":  b.AuthorID.String(),
		"summary": b.Summary,
		"isbn":    b.ISBN,
	}
}
