package handler

import (
	"net/http"
	"time"

	"biblio/internal/catalog/models"
	"biblio/internal/catalog/service"
	"biblio/internal/web"
)

func (h *Handler) authorList(w http.ResponseWriter, r *http.Request) {
	authors, err := h.svc.Authors(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "author_list", web.Page{Title: "Author List", Data: authors})
}

func (h *Handler) authorDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.AuthorDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "author_detail", web.Page{Title: "Author: " + detail.Author.Name(), Data: detail})
}

func (h *Handler) authorCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "author_form", web.Page{Title: "Create Author"})
}

func (h *Handler) authorCreate(w http.ResponseWriter, r *http.Request) {
	in, form := authorFormValues(r)
	id, errs, err := h.svc.CreateAuthor(r.Context(), in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "author_form", web.Page{
			Title:  "Create Author",
			Errors: errs.Messages(),
			Form:   form,
		})
		return
	}
	http.Redirect(w, r, "/catalog/author/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) authorUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.AuthorDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "author_form", web.Page{
		Title: "Update Author",
		Form:  authorToForm(detail.Author),
	})
}

func (h *Handler) authorUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, form := authorFormValues(r)
	errs, err := h.svc.UpdateAuthor(r.Context(), id, in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "author_form", web.Page{
			Title:  "Update Author",
			Errors: errs.Messages(),
			Form:   form,
		})
		return
	}
	http.Redirect(w, r, "/catalog/author/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) authorDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.AuthorDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "author_delete", web.Page{Title: "Delete Author", Data: detail})
}

func (h *Handler) authorDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	blocking, err := h.svc.DeleteAuthor(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if len(blocking) > 0 {
		detail, err := h.svc.AuthorDetail(r.Context(), id)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusConflict, "author_delete", web.Page{Title: "Delete Author", Data: detail})
		return
	}
	http.Redirect(w, r, "/catalog/authors", http.StatusSeeOther)
}

func authorFormValues(r *http.Request) (service.AuthorInput, map[string]string) {
	_ = r.ParseForm()
	in := service.AuthorInput{
		FirstName:   r.PostFormValue("first_name"),
		FamilyName:  r.PostFormValue("family_name"),
		DateOfBirth: r.PostFormValue("date_of_birth"),
		DateOfDeath: r.PostFormValue("date_of_death"),
	}
	return in, map[string]string{
		"first_name":    in.FirstName,
		"family_name":   in.FamilyName,
		"date_of_birth": in.DateOfBirth,
		"date_of_death": in.DateOfDeath,
	}
}

func authorToForm(a models.Author) map[string]string {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return map[string]string{
		"first_name":    a.FirstName,
		"family_name":   a.FamilyName,
		"date_of_birth": format(a.DateOfBirth),
		"date_of_death": format(a.DateOfDeath),
	}
}
