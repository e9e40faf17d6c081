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
)

func validateGenreName(name string) (string, forms.Errors) {
	var errs forms.Errors
	trimmed := errs.MinLength("name", name, 3, "Genre name must contain at least 3 characters")
	return trimmed, errs
}

func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list genres")
	}
	return genres, nil
}

// GenreDetail loads the genre and the books filed under it concurrently.
func (s *Service) GenreDetail(ctx context.Context, id uuid.UUID) (models.GenreDetail, error) {
	var detail models.GenreDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { detail.Genre, err = s.store.FindGenre(gctx, id); return })
	g.Go(func() (err error) { detail.Books, err = s.store.ListBooksByGenre(gctx, id); return })
	if err := g.Wait(); err != nil {
		return models.GenreDetail{}, notFound(err, "genre")
	}
	return detail, nil
}

// CreateGenre persists a new genre unless one with the same name
// (case-insensitive) exists; then the existing ID is returned so the caller
// redirects there.
func (s *Service) CreateGenre(ctx context.Context, name string) (uuid.UUID, forms.Errors, error) {
	trimmed, errs := validateGenreName(name)
	if errs.HasErrors() {
		return uuid.Nil, errs, nil
	}

	if existing, err := s.store.FindGenreByName(ctx, trimmed); err == nil {
		return existing.ID, nil, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "genre lookup failed")
	}

	genre := models.Genre{ID: uuid.New(), Name: trimmed}
	if err := s.store.CreateGenre(ctx, genre); err != nil {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "genre creation failed")
	}
	s.metrics.CatalogWrite("genre", "create")
	s.audit.Record(ctx, audit.ActionGenreCreated, genre.Name)
	return genre.ID, nil, nil
}

func (s *Service) UpdateGenre(ctx context.Context, id uuid.UUID, name string) (forms.Errors, error) {
	trimmed, errs := validateGenreName(name)
	if errs.HasErrors() {
		return errs, nil
	}
	if err := s.store.UpdateGenre(ctx, models.Genre{ID: id, Name: trimmed}); err != nil {
		return nil, notFound(err, "genre")
	}
	s.metrics.CatalogWrite("genre", "update")
	s.audit.Record(ctx, audit.ActionGenreUpdated, trimmed)
	return nil, nil
}

// DeleteGenre removes the genre unless books still reference it; the
// blocking books are returned so the delete page can list them.
func (s *Service) DeleteGenre(ctx context.Context, id uuid.UUID) ([]models.Book, error) {
	books, err := s.store.ListBooksByGenre(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list genre books")
	}
	if len(books) > 0 {
		return books, nil
	}
	if err := s.store.DeleteGenre(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "genre deletion failed")
	}
	s.metrics.CatalogWrite("genre", "delete")
	s.audit.Record(ctx, audit.ActionGenreDeleted, id.String())
	return nil, nil
}
