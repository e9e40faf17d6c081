package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"biblio/internal/catalog/models"
	"biblio/pkg/platform/sentinel"
)

type CatalogStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *CatalogStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *CatalogStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestCatalogStoreSuite(t *testing.T) {
	suite.Run(t, new(CatalogStoreSuite))
}

func (s *CatalogStoreSuite) addAuthor(first, family string) models.Author {
	a := models.Author{ID: uuid.New(), FirstName: first, FamilyName: family}
	s.Require().NoError(s.store.CreateAuthor(s.ctx, a))
	return a
}

func (s *CatalogStoreSuite) addBook(title string, authorID uuid.UUID, genreIDs ...uuid.UUID) models.Book {
	b := models.Book{ID: uuid.New(), Title: title, AuthorID: authorID, GenreIDs: genreIDs}
	s.Require().NoError(s.store.CreateBook(s.ctx, b))
	return b
}

func (s *CatalogStoreSuite) TestNameLookups() {
	s.Run("author names match case-insensitively", func() {
		a := s.addAuthor("Ursula", "Le Guin")

		found, err := s.store.FindAuthorByName(s.ctx, "URSULA", "le guin")
		s.Require().NoError(err)
		s.Equal(a.ID, found.ID)
	})

	s.Run("genre names match case-insensitively", func() {
		g := models.Genre{ID: uuid.New(), Name: "Fantasy"}
		s.Require().NoError(s.store.CreateGenre(s.ctx, g))

		found, err := s.store.FindGenreByName(s.ctx, "fantasy")
		s.Require().NoError(err)
		s.Equal(g.ID, found.ID)
	})

	s.Run("unknown names are not found", func() {
		_, err := s.store.FindAuthorByName(s.ctx, "No", "Body")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CatalogStoreSuite) TestListingOrder() {
	s.Run("books list alphabetically with the author name populated", func() {
		a := s.addAuthor("Isaac", "Asimov")
		s.addBook("I, Robot", a.ID)
		s.addBook("Foundation", a.ID)

		books, err := s.store.ListBooks(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(books, 2)
		s.Equal("Foundation", books[0].Book.Title)
		s.Equal("Isaac Asimov", books[0].AuthorName)
	})

	s.Run("authors list by family name", func() {
		s.addAuthor("Herman", "Melville")
		s.addAuthor("Jane", "Austen")

		authors, err := s.store.ListAuthors(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(authors, 2)
		s.Equal("Austen", authors[0].FamilyName)
	})
}

func (s *CatalogStoreSuite) TestGenreFiltering() {
	s.Run("lists books carrying the genre", func() {
		a := s.addAuthor("Terry", "Pratchett")
		g := models.Genre{ID: uuid.New(), Name: "Comic Fantasy"}
		s.Require().NoError(s.store.CreateGenre(s.ctx, g))
		s.addBook("Mort", a.ID, g.ID)
		s.addBook("Plain Book", a.ID)

		books, err := s.store.ListBooksByGenre(s.ctx, g.ID)
		s.Require().NoError(err)
		s.Require().Len(books, 1)
		s.Equal("Mort", books[0].Title)
	})
}

func (s *CatalogStoreSuite) TestBookDeletionCascade() {
	s.Run("deleting a book removes its copies", func() {
		a := s.addAuthor("Bram", "Stoker")
		b := s.addBook("Dracula", a.ID)
		c := models.Copy{ID: uuid.New(), BookID: b.ID, Imprint: "Constable, 1897", Status: models.StatusAvailable}
		s.Require().NoError(s.store.CreateCopy(s.ctx, c))

		s.Require().NoError(s.store.DeleteBook(s.ctx, b.ID))

		_, err := s.store.FindCopy(s.ctx, c.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CatalogStoreSuite) TestCounts() {
	s.Run("available copies count only the available status", func() {
		a := s.addAuthor("Ben", "Bova")
		b := s.addBook("Apes and Angels", a.ID)
		s.Require().NoError(s.store.CreateCopy(s.ctx, models.Copy{
			ID: uuid.New(), BookID: b.ID, Imprint: "Tor, 2016", Status: models.StatusAvailable,
		}))
		s.Require().NoError(s.store.CreateCopy(s.ctx, models.Copy{
			ID: uuid.New(), BookID: b.ID, Imprint: "Tor, 2016", Status: models.StatusOnLoan,
		}))

		n, err := s.store.CountAvailableCopies(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}
