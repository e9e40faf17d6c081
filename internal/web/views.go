package web

import "biblio/internal/catalog/models"

// BookForm is the page data for the book create/update form: the select
// options plus which genres are currently ticked, keyed by genre ID string.
type BookForm struct {
	Authors  []models.Author
	Genres   []models.Genre
	Selected map[string]bool
}

// CopyForm is the page data for the copy create/update form.
type CopyForm struct {
	Books    []models.BookSummary
	Statuses []string
}
