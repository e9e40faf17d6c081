package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"biblio/internal/catalog/models"
	"biblio/pkg/platform/sentinel"
)

// InMemoryStore keeps the whole catalog in maps behind one mutex. It backs
// development runs without a database and doubles as the test fake.
type InMemoryStore struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]models.Author
	genres  map[uuid.UUID]models.Genre
	books   map[uuid.UUID]models.Book
	copies  map[uuid.UUID]models.Copy
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		authors: make(map[uuid.UUID]models.Author),
		genres:  make(map[uuid.UUID]models.Genre),
		books:   make(map[uuid.UUID]models.Book),
		copies:  make(map[uuid.UUID]models.Copy),
	}
}

// ----- authors -----

func (s *InMemoryStore) ListAuthors(_ context.Context) ([]models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Author, 0, len(s.authors))
	for _, a := range s.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].FamilyName) < strings.ToLower(out[j].FamilyName)
	})
	return out, nil
}

func (s *InMemoryStore) FindAuthor(_ context.Context, id uuid.UUID) (models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.authors[id]; ok {
		return a, nil
	}
	return models.Author{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindAuthorByName(_ context.Context, firstName, familyName string) (models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.authors {
		if strings.EqualFold(a.FirstName, firstName) && strings.EqualFold(a.FamilyName, familyName) {
			return a, nil
		}
	}
	return models.Author{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateAuthor(_ context.Context, author models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[author.ID] = author
	return nil
}

func (s *InMemoryStore) UpdateAuthor(_ context.Context, author models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[author.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.authors[author.ID] = author
	return nil
}

func (s *InMemoryStore) DeleteAuthor(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.authors, id)
	return nil
}

func (s *InMemoryStore) CountAuthors(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), nil
}

// ----- genres -----

func (s *InMemoryStore) ListGenres(_ context.Context) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *InMemoryStore) FindGenre(_ context.Context, id uuid.UUID) (models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.genres[id]; ok {
		return g, nil
	}
	return models.Genre{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindGenreByName(_ context.Context, name string) (models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.genres {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return models.Genre{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateGenre(_ context.Context, genre models.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genres[genre.ID] = genre
	return nil
}

func (s *InMemoryStore) UpdateGenre(_ context.Context, genre models.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[genre.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.genres[genre.ID] = genre
	return nil
}

func (s *InMemoryStore) DeleteGenre(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.genres, id)
	return nil
}

func (s *InMemoryStore) CountGenres(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.genres), nil
}

// ----- books -----

func (s *InMemoryStore) ListBooks(_ context.Context) ([]models.BookSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BookSummary, 0, len(s.books))
	for _, b := range s.books {
		summary := models.BookSummary{Book: b}
		if a, ok := s.authors[b.AuthorID]; ok {
			summary.AuthorName = a.Name()
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Book.Title) < strings.ToLower(out[j].Book.Title)
	})
	return out, nil
}

func (s *InMemoryStore) ListBooksByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Book
	for _, b := range s.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	sortBooks(out)
	return out, nil
}

func (s *InMemoryStore) ListBooksByGenre(_ context.Context, genreID uuid.UUID) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Book
	for _, b := range s.books {
		for _, gid := range b.GenreIDs {
			if gid == genreID {
				out = append(out, b)
				break
			}
		}
	}
	sortBooks(out)
	return out, nil
}

func (s *InMemoryStore) FindBook(_ context.Context, id uuid.UUID) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.books[id]; ok {
		return b, nil
	}
	return models.Book{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateBook(_ context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
	return nil
}

func (s *InMemoryStore) UpdateBook(_ context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[book.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.books[book.ID] = book
	return nil
}

func (s *InMemoryStore) DeleteBook(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.books, id)
	for cid, c := range s.copies {
		if c.BookID == id {
			delete(s.copies, cid)
		}
	}
	return nil
}

func (s *InMemoryStore) CountBooks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

// ----- copies -----

func (s *InMemoryStore) ListCopies(_ context.Context) ([]models.CopyDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CopyDetail, 0, len(s.copies))
	for _, c := range s.copies {
		detail := models.CopyDetail{Copy: c}
		if b, ok := s.books[c.BookID]; ok {
			detail.Book = b
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Book.Title) < strings.ToLower(out[j].Book.Title)
	})
	return out, nil
}

func (s *InMemoryStore) ListCopiesByBook(_ context.Context, bookID uuid.UUID) ([]models.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Copy
	for _, c := range s.copies {
		if c.BookID == bookID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Imprint < out[j].Imprint
	})
	return out, nil
}

func (s *InMemoryStore) FindCopy(_ context.Context, id uuid.UUID) (models.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.copies[id]; ok {
		return c, nil
	}
	return models.Copy{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateCopy(_ context.Context, copy models.Copy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copies[copy.ID] = copy
	return nil
}

func (s *InMemoryStore) UpdateCopy(_ context.Context, copy models.Copy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.copies[copy.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.copies[copy.ID] = copy
	return nil
}

func (s *InMemoryStore) DeleteCopy(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.copies, id)
	return nil
}

func (s *InMemoryStore) CountCopies(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.copies), nil
}

func (s *InMemoryStore) CountAvailableCopies(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.copies {
		if c.Status == models.StatusAvailable {
			n++
		}
	}
	return n, nil
}

func sortBooks(books []models.Book) {
	sort.Slice(books, func(i, j int) bool {
		return strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
	})
}
