package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"biblio/internal/catalog/models"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/forms"
	"biblio/pkg/platform/audit"
	"biblio/pkg/platform/sentinel"
	pstrings "biblio/pkg/platform/strings"
)

// BookInput carries raw form values for a book create/update.
type BookInput struct {
	Title    string
	AuthorID string
	Summary  string
	ISBN     string
	GenreIDs []string
}

func (in BookInput) validate() (models.Book, forms.Errors) {
	var errs forms.Errors
	book := models.Book{
		Title:   errs.Required("title", in.Title, "Title must not be empty."),
		Summary: in.Summary,
	}
	book.ISBN = errs.OptionalISBN("isbn", in.ISBN, "Invalid ISBN.")

	if id, err := uuid.Parse(in.AuthorID); err != nil {
		errs.Add("author", "Author must be selected.")
	} else {
		book.AuthorID = id
	}
	for _, raw := range pstrings.DedupeAndTrim(in.GenreIDs) {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Add("genre", "Invalid genre selection.")
			break
		}
		book.GenreIDs = append(book.GenreIDs, id)
	}
	return book, errs
}

func (s *Service) Books(ctx context.Context) ([]models.BookSummary, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list books")
	}
	return books, nil
}

// BookDetail loads the book and its copies concurrently, then populates the
// author and genre references.
func (s *Service) BookDetail(ctx context.Context, id uuid.UUID) (models.BookDetail, error) {
	var detail models.BookDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { detail.Book, err = s.store.FindBook(gctx, id); return })
	g.Go(func() (err error) { detail.Copies, err = s.store.ListCopiesByBook(gctx, id); return })
	if err := g.Wait(); err != nil {
		return models.BookDetail{}, notFound(err, "book")
	}

	author, err := s.store.FindAuthor(ctx, detail.Book.AuthorID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return models.BookDetail{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load book author")
	}
	detail.Author = author

	for _, gid := range detail.Book.GenreIDs {
		genre, err := s.store.FindGenre(ctx, gid)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return models.BookDetail{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load book genres")
		}
		detail.Genres = append(detail.Genres, genre)
	}
	return detail, nil
}

func (s *Service) CreateBook(ctx context.Context, in BookInput) (uuid.UUID, forms.Errors, error) {
	book, errs := in.validate()
	if errs.HasErrors() {
		return uuid.Nil, errs, nil
	}
	if _, err := s.store.FindAuthor(ctx, book.AuthorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			errs.Add("author", "Selected author does not exist.")
			return uuid.Nil, errs, nil
		}
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "author lookup failed")
	}

	book.ID = uuid.New()
	if err := s.store.CreateBook(ctx, book); err != nil {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "book creation failed")
	}
	s.metrics.CatalogWrite("book", "create")
	s.audit.Record(ctx, audit.ActionBookCreated, book.Title)
	return book.ID, nil, nil
}

func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, in BookInput) (forms.Errors, error) {
	book, errs := in.validate()
	if errs.HasErrors() {
		return errs, nil
	}
	book.ID = id
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, notFound(err, "book")
	}
	s.metrics.CatalogWrite("book", "update")
	s.audit.Record(ctx, audit.ActionBookUpdated, book.Title)
	return nil, nil
}

// DeleteBook removes the book unless copies of it are still on the shelves;
// the blocking copies are returned so the delete page can list them.
func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) ([]models.Copy, error) {
	copies, err := s.store.ListCopiesByBook(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list book copies")
	}
	if len(copies) > 0 {
		return copies, nil
	}
	if err := s.store.DeleteBook(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "book deletion failed")
	}
	s.metrics.CatalogWrite("book", "delete")
	s.audit.Record(ctx, audit.ActionBookDeleted, id.String())
	return nil, nil
}
