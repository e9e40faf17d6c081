package store

import (
	"context"

	"github.com/google/uuid"

	"biblio/internal/catalog/models"
)

// Store persists the catalog. Find* return sentinel.ErrNotFound for missing
// records; FindAuthorByName and FindGenreByName match case-insensitively,
// which is the duplicate-detection policy for catalog names (usernames, by
// contrast, are matched exactly).
type Store interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	FindAuthor(ctx context.Context, id uuid.UUID) (models.Author, error)
	FindAuthorByName(ctx context.Context, firstName, familyName string) (models.Author, error)
	CreateAuthor(ctx context.Context, author models.Author) error
	UpdateAuthor(ctx context.Context, author models.Author) error
	DeleteAuthor(ctx context.Context, id uuid.UUID) error
	CountAuthors(ctx context.Context) (int, error)

	ListGenres(ctx context.Context) ([]models.Genre, error)
	FindGenre(ctx context.Context, id uuid.UUID) (models.Genre, error)
	FindGenreByName(ctx context.Context, name string) (models.Genre, error)
	CreateGenre(ctx context.Context, genre models.Genre) error
	UpdateGenre(ctx context.Context, genre models.Genre) error
	DeleteGenre(ctx context.Context, id uuid.UUID) error
	CountGenres(ctx context.Context) (int, error)

	ListBooks(ctx context.Context) ([]models.BookSummary, error)
	ListBooksByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Book, error)
	ListBooksByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Book, error)
	FindBook(ctx context.Context, id uuid.UUID) (models.Book, error)
	CreateBook(ctx context.Context, book models.Book) error
	UpdateBook(ctx context.Context, book models.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) error
	CountBooks(ctx context.Context) (int, error)

	ListCopies(ctx context.Context) ([]models.CopyDetail, error)
	ListCopiesByBook(ctx context.Context, bookID uuid.UUID) ([]models.Copy, error)
	FindCopy(ctx context.Context, id uuid.UUID) (models.Copy, error)
	CreateCopy(ctx context.Context, copy models.Copy) error
	UpdateCopy(ctx context.Context, copy models.Copy) error
	DeleteCopy(ctx context.Context, id uuid.UUID) error
	CountCopies(ctx context.Context) (int, error)
	CountAvailableCopies(ctx context.Context) (int, error)
}
