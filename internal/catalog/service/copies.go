package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"biblio/internal/catalog/models"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/forms"
	"biblio/pkg/platform/audit"
	"biblio/pkg/platform/sentinel"
)

// CopyInput carries raw form values for a copy create/update.
type CopyInput struct {
	BookID  string
	Imprint string
	Status  string
	DueBack string
}

func (in CopyInput) validate() (models.Copy, forms.Errors) {
	var errs forms.Errors
	copyRec := models.Copy{
		Imprint: errs.Required("imprint", in.Imprint, "Imprint must be specified."),
	}
	if id, err := uuid.Parse(in.BookID); err != nil {
		errs.Add("book", "Book must be selected.")
	} else {
		copyRec.BookID = id
	}
	errs.OneOf("status", in.Status, models.CopyStatuses(), "Invalid status.")
	copyRec.Status = models.CopyStatus(in.Status)
	copyRec.DueBack = errs.OptionalDate("due_back", in.DueBack, "Invalid due-back date")
	return copyRec, errs
}

func (s *Service) Copies(ctx context.Context) ([]models.CopyDetail, error) {
	copies, err := s.store.ListCopies(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list copies")
	}
	return copies, nil
}

func (s *Service) CopyDetail(ctx context.Context, id uuid.UUID) (models.CopyDetail, error) {
	copyRec, err := s.store.FindCopy(ctx, id)
	if err != nil {
		return models.CopyDetail{}, notFound(err, "copy")
	}
	book, err := s.store.FindBook(ctx, copyRec.BookID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return models.CopyDetail{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load copy book")
	}
	return models.CopyDetail{Copy: copyRec, Book: book}, nil
}

func (s *Service) CreateCopy(ctx context.Context, in CopyInput) (uuid.UUID, forms.Errors, error) {
	copyRec, errs := in.validate()
	if errs.HasErrors() {
		return uuid.Nil, errs, nil
	}
	if _, err := s.store.FindBook(ctx, copyRec.BookID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			errs.Add("book", "Selected book does not exist.")
			return uuid.Nil, errs, nil
		}
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "book lookup failed")
	}

	copyRec.ID = uuid.New()
	if err := s.store.CreateCopy(ctx, copyRec); err != nil {
		return uuid.Nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "copy creation failed")
	}
	s.metrics.CatalogWrite("copy", "create")
	s.audit.Record(ctx, audit.ActionCopyCreated, copyRec.Imprint)
	return copyRec.ID, nil, nil
}

func (s *Service) UpdateCopy(ctx context.Context, id uuid.UUID, in CopyInput) (forms.Errors, error) {
	copyRec, errs := in.validate()
	if errs.HasErrors() {
		return errs, nil
	}
	copyRec.ID = id
	if err := s.store.UpdateCopy(ctx, copyRec); err != nil {
		return nil, notFound(err, "copy")
	}
	s.metrics.CatalogWrite("copy", "update")
	s.audit.Record(ctx, audit.ActionCopyUpdated, copyRec.Imprint)
	return nil, nil
}

func (s *Service) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCopy(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "copy deletion failed")
	}
	s.metrics.CatalogWrite("copy", "delete")
	s.audit.Record(ctx, audit.ActionCopyDeleted, id.String())
	return nil
}
