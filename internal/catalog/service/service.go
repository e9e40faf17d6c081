// Package service holds the catalog business rules: list and detail
// assembly, duplicate detection for names, and the validate-or-persist step
// behind every form.
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"biblio/internal/catalog/models"
	"biblio/internal/catalog/store"
	"biblio/internal/platform/metrics"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/audit"
	"biblio/pkg/platform/sentinel"
)

type Service struct {
	store   store.Store
	audit   *audit.Recorder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(st store.Store, recorder *audit.Recorder, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, audit: recorder, logger: logger, metrics: m}
}

// Home gathers the five landing-page counts concurrently; the queries are
// independent of each other.
func (s *Service) Home(ctx context.Context) (models.HomeCounts, error) {
	var counts models.HomeCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { counts.Books, err = s.store.CountBooks(gctx); return })
	g.Go(func() (err error) { counts.Copies, err = s.store.CountCopies(gctx); return })
	g.Go(func() (err error) { counts.AvailableCopies, err = s.store.CountAvailableCopies(gctx); return })
	g.Go(func() (err error) { counts.Authors, err = s.store.CountAuthors(gctx); return })
	g.Go(func() (err error) { counts.Genres, err = s.store.CountGenres(gctx); return })
	if err := g.Wait(); err != nil {
		return models.HomeCounts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog counts")
	}
	return counts, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}
