package handler

import (
	"context"
	"net/http"
	"time"

	"biblio/internal/catalog/models"
	"biblio/internal/catalog/service"
	"biblio/internal/web"
)

func (h *Handler) copyList(w http.ResponseWriter, r *http.Request) {
	copies, err := h.svc.Copies(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "copy_list", web.Page{Title: "Book Copy List", Data: copies})
}

func (h *Handler) copyDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.CopyDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "copy_detail", web.Page{Title: "Copy: " + detail.Book.Title, Data: detail})
}

func (h *Handler) copyCreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.copyForm(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "copy_form", web.Page{
		Title: "Create Copy",
		Form:  map[string]string{"status": string(models.StatusMaintenance)},
		Data:  data,
	})
}

func (h *Handler) copyCreate(w http.ResponseWriter, r *http.Request) {
	in, form := copyFormValues(r)
	id, errs, err := h.svc.CreateCopy(r.Context(), in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		data, err := h.copyForm(r.Context())
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "copy_form", web.Page{
			Title:  "Create Copy",
			Errors: errs.Messages(),
			Form:   form,
			Data:   data,
		})
		return
	}
	http.Redirect(w, r, "/catalog/copy/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) copyUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.CopyDetail(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	data, err := h.copyForm(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "copy_form", web.Page{
		Title: "Update Copy",
		Form:  copyToForm(detail.Copy),
		Data:  data,
	})
}

func (h *Handler) copyUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	in, form := copyFormValues(r)
	errs, err := h.svc.UpdateCopy(r.Context(), id, in)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}
	if errs.HasErrors() {
		data, err := h.copyForm(r.Context())
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.HTML(w, r, http.StatusUnprocessableEntity, "copy_form", web.Page{
			Title:  "Update Copy",
			Errors: errs.Messages(),
			Form:   form,
			Data:   data,
		})
		return
	}
	http.Redirect(w, r, "/catalog/copy/"+id.String(), http.StatusSeeOther)
}

func (h *Handler) copyDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCopy(r.Context(), id); err != nil {
		h.render.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/catalog/copies", http.StatusSeeOther)
}

func (h *Handler) copyForm(ctx context.Context) (web.CopyForm, error) {
	books, err := h.svc.Books(ctx)
	if err != nil {
		return web.CopyForm{}, err
	}
	return web.CopyForm{Books: books, Statuses: models.CopyStatuses()}, nil
}

func copyFormValues(r *http.Request) (service.CopyInput, map[string]string) {
	_ = r.ParseForm()
	in := service.CopyInput{
		BookID:  r.PostFormValue("book"),
		Imprint: r.PostFormValue("imprint"),
		Status:  r.PostFormValue("status"),
		DueBack: r.PostFormValue("due_back"),
	}
	return in, map[string]string{
		"book":     in.BookID,
		"imprint":  in.Imprint,
		"status":   in.Status,
		"due_back": in.DueBack,
	}
}

func copyToForm(c models.Copy) map[string]string {
	due := ""
	if c.DueBack != nil {
		due = c.DueBack.Format(time.DateOnly)
	}
	return map[string]string{
		"book":     c.BookID.String(),
		"imprint":  c.Imprint,
		"status":   string(c.Status),
		"due_back": due,
	}
}
