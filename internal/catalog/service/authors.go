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

// AuthorInput carries raw form values; validation turns them into a model.
type AuthorInput struct {
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
}

func (in AuthorInput) validate() (models.Author, forms.Errors) {
	var errs forms.Errors
	author := models.Author{
		FirstName:  errs.Required("first_name", in.FirstName, "First name must be specified."),
		FamilyName: errs.Required("family_name", in.FamilyName, "Family name must be specified."),
	}
	errs.MaxLength("first_name", author.FirstName, 100, "First name too long.")
	errs.MaxLength("family_name", author.FamilyName, 100, "Family name too long.")
	author.DateOfBirth = errs.OptionalDate("date_of_birth", in.DateOfBirth, "Invalid date of birth")
	author.DateOfDeath = errs.OptionalDate("date_of_death", in.DateOfDeath, "Invalid date of death")
	return author, errs
}

func (s *Service) Authors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list authors")
	}
	return authors, nil
}

// AuthorDetail loads the author and their books concurrently.
func (s *Service) AuthorDetail(ctx context.Context, id uuid.UUID) (models.AuthorDetail, error) {
	var detail models.AuthorDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { detail.Author, err = s.store.FindAuthor(gctx, id); return })
	g.Go(func() (err error) { detail.Books, err = s.store.ListBooksByAuthor(gctx, id); return })
	if err := g.Wait(); err != nil {
		return models.AuthorDetail{}, notFound(err, "author")
	}
	return detail, nil
}

// CreateAuthor persists a new author, unless an author with the same name
// (case-insensitive) already exists, in which case the existing ID is
// returned and the caller redirects there instead.
func (s *Service) CreateAuthor(ctx context.Context, in AuthorInput) (uuid.UUID, forms.Errors, error) {
	author, errs := in.validate()
	if errs.HasErrors() {
		return uuid.Nil, errs, nil
	}

	if existing, err := s.store.FindAuthorByName(ctx, author.FirstName, author.FamilyName); err == nil {
		return existing.ID, nil, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "author lookup failed")
	}

	author.ID = uuid.New()
	if err := s.store.CreateAuthor(ctx, author); err != nil {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "author creation failed")
	}
	s.metrics.CatalogWrite("author", "create")
	s.audit.Record(ctx, audit.ActionAuthorCreated, author.Name())
	return author.ID, nil, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id uuid.UUID, in AuthorInput) (forms.Errors, error) {
	author, errs := in.validate()
	if errs.HasErrors() {
		return errs, nil
	}
	author.ID = id
	if err := s.store.UpdateAuthor(ctx, author); err != nil {
		return nil, notFound(err, "author")
	}
	s.metrics.CatalogWrite("author", "update")
	s.audit.Record(ctx, audit.ActionAuthorUpdated, author.Name())
	return nil, nil
}

// DeleteAuthor removes the author unless books still reference them; the
// blocking books are returned so the delete page can list them.
func (s *Service) DeleteAuthor(ctx context.Context, id uuid.UUID) ([]models.Book, error) {
	books, err := s.store.ListBooksByAuthor(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list author books")
	}
	if len(books) > 0 {
		return books, nil
	}
	if err := s.store.DeleteAuthor(ctx, id); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "author deletion failed")
	}
	s.metrics.CatalogWrite("author", "delete")
	s.audit.Record(ctx, audit.ActionAuthorDeleted, id.String())
	return nil, nil
}
