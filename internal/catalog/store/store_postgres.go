package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"biblio/internal/catalog/models"
	"biblio/pkg/platform/sentinel"
)

// PostgresStore persists the catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ----- authors -----

func (s *PostgresStore) ListAuthors(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, family_name, date_of_birth, date_of_death
		 FROM authors ORDER BY lower(family_name)`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()
	return scanAuthors(rows)
}

func (s *PostgresStore) FindAuthor(ctx context.Context, id uuid.UUID) (models.Author, error) {
	return s.findAuthor(ctx,
		`SELECT id, first_name, family_name, date_of_birth, date_of_death
		 FROM authors WHERE id = $1`, id)
}

func (s *PostgresStore) FindAuthorByName(ctx context.Context, firstName, familyName string) (models.Author, error) {
	return s.findAuthor(ctx,
		`SELECT id, first_name, family_name, date_of_birth, date_of_death
		 FROM authors WHERE lower(first_name) = lower($1) AND lower(family_name) = lower($2)`,
		firstName, familyName)
}

func (s *PostgresStore) findAuthor(ctx context.Context, query string, args ...any) (models.Author, error) {
	var a models.Author
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.FirstName, &a.FamilyName, &a.DateOfBirth, &a.DateOfDeath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Author{}, sentinel.ErrNotFound
		}
		return models.Author{}, fmt.Errorf("find author: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) CreateAuthor(ctx context.Context, author models.Author) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (id, first_name, family_name, date_of_birth, date_of_death)
		 VALUES ($1, $2, $3, $4, $5)`,
		author.ID, author.FirstName, author.FamilyName, author.DateOfBirth, author.DateOfDeath)
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAuthor(ctx context.Context, author models.Author) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE authors SET first_name = $2, family_name = $3, date_of_birth = $4, date_of_death = $5
		 WHERE id = $1`,
		author.ID, author.FirstName, author.FamilyName, author.DateOfBirth, author.DateOfDeath)
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountAuthors(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM authors`)
}

// ----- genres -----

func (s *PostgresStore) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (s *PostgresStore) FindGenre(ctx context.Context, id uuid.UUID) (models.Genre, error) {
	return s.findGenre(ctx, `SELECT id, name FROM genres WHERE id = $1`, id)
}

func (s *PostgresStore) FindGenreByName(ctx context.Context, name string) (models.Genre, error) {
	return s.findGenre(ctx, `SELECT id, name FROM genres WHERE lower(name) = lower($1)`, name)
}

func (s *PostgresStore) findGenre(ctx context.Context, query string, arg any) (models.Genre, error) {
	var g models.Genre
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Genre{}, sentinel.ErrNotFound
		}
		return models.Genre{}, fmt.Errorf("find genre: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) CreateGenre(ctx context.Context, genre models.Genre) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO genres (id, name) VALUES ($1, $2)`, genre.ID, genre.Name); err != nil {
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateGenre(ctx context.Context, genre models.Genre) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE genres SET name = $2 WHERE id = $1`, genre.ID, genre.Name)
	if err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountGenres(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM genres`)
}

// ----- books -----

func (s *PostgresStore) ListBooks(ctx context.Context) ([]models.BookSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.title, b.author_id, b.summary, b.isbn,
		        a.first_name || ' ' || a.family_name
		 FROM books b JOIN authors a ON a.id = b.author_id
		 ORDER BY lower(b.title)`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var out []models.BookSummary
	for rows.Next() {
		var bs models.BookSummary
		if err := rows.Scan(&bs.Book.ID, &bs.Book.Title, &bs.Book.AuthorID,
			&bs.Book.Summary, &bs.Book.ISBN, &bs.AuthorName); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListBooksByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Book, error) {
	return s.listBooks(ctx,
		`SELECT id, title, author_id, summary, isbn FROM books
		 WHERE author_id = $1 ORDER BY lower(title)`, authorID)
}

func (s *PostgresStore) ListBooksByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Book, error) {
	return s.listBooks(ctx,
		`SELECT b.id, b.title, b.author_id, b.summary, b.isbn
		 FROM books b JOIN book_genres bg ON bg.book_id = b.id
		 WHERE bg.genre_id = $1 ORDER BY lower(b.title)`, genreID)
}

func (s *PostgresStore) listBooks(ctx context.Context, query string, arg any) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Summary, &b.ISBN); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *PostgresStore) FindBook(ctx context.Context, id uuid.UUID) (models.Book, error) {
	var b models.Book
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, author_id, summary, isbn FROM books WHERE id = $1`, id).
		Scan(&b.ID, &b.Title, &b.AuthorID, &b.Summary, &b.ISBN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, sentinel.ErrNotFound
		}
		return models.Book{}, fmt.Errorf("find book: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT genre_id FROM book_genres WHERE book_id = $1`, id)
	if err != nil {
		return models.Book{}, fmt.Errorf("find book genres: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var gid uuid.UUID
		if err := rows.Scan(&gid); err != nil {
			return models.Book{}, fmt.Errorf("scan book genre: %w", err)
		}
		b.GenreIDs = append(b.GenreIDs, gid)
	}
	return b, rows.Err()
}

func (s *PostgresStore) CreateBook(ctx context.Context, book models.Book) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO books (id, title, author_id, summary, isbn)
			 VALUES ($1, $2, $3, $4, $5)`,
			book.ID, book.Title, book.AuthorID, book.Summary, book.ISBN)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		return insertBookGenres(ctx, tx, book)
	})
}

func (s *PostgresStore) UpdateBook(ctx context.Context, book models.Book) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE books SET title = $2, author_id = $3, summary = $4, isbn = $5
			 WHERE id = $1`,
			book.ID, book.Title, book.AuthorID, book.Summary, book.ISBN)
		if err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM book_genres WHERE book_id = $1`, book.ID); err != nil {
			return fmt.Errorf("clear book genres: %w", err)
		}
		return insertBookGenres(ctx, tx, book)
	})
}

func insertBookGenres(ctx context.Context, tx *sql.Tx, book models.Book) error {
	for _, gid := range book.GenreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`,
			book.ID, gid); err != nil {
			return fmt.Errorf("insert book genre: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountBooks(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM books`)
}

// ----- copies -----

func (s *PostgresStore) ListCopies(ctx context.Context) ([]models.CopyDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.book_id, c.imprint, c.status, c.due_back,
		        b.id, b.title, b.author_id, b.summary, b.isbn
		 FROM copies c JOIN books b ON b.id = c.book_id
		 ORDER BY lower(b.title), c.imprint`)
	if err != nil {
		return nil, fmt.Errorf("list copies: %w", err)
	}
	defer rows.Close()

	var out []models.CopyDetail
	for rows.Next() {
		var d models.CopyDetail
		if err := rows.Scan(&d.Copy.ID, &d.Copy.BookID, &d.Copy.Imprint, &d.Copy.Status, &d.Copy.DueBack,
			&d.Book.ID, &d.Book.Title, &d.Book.AuthorID, &d.Book.Summary, &d.Book.ISBN); err != nil {
			return nil, fmt.Errorf("scan copy: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListCopiesByBook(ctx context.Context, bookID uuid.UUID) ([]models.Copy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, imprint, status, due_back FROM copies
		 WHERE book_id = $1 ORDER BY imprint`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list copies: %w", err)
	}
	defer rows.Close()

	var copies []models.Copy
	for rows.Next() {
		var c models.Copy
		if err := rows.Scan(&c.ID, &c.BookID, &c.Imprint, &c.Status, &c.DueBack); err != nil {
			return nil, fmt.Errorf("scan copy: %w", err)
		}
		copies = append(copies, c)
	}
	return copies, rows.Err()
}

func (s *PostgresStore) FindCopy(ctx context.Context, id uuid.UUID) (models.Copy, error) {
	var c models.Copy
	err := s.db.QueryRowContext(ctx,
		`SELECT id, book_id, imprint, status, due_back FROM copies WHERE id = $1`, id).
		Scan(&c.ID, &c.BookID, &c.Imprint, &c.Status, &c.DueBack)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Copy{}, sentinel.ErrNotFound
		}
		return models.Copy{}, fmt.Errorf("find copy: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) CreateCopy(ctx context.Context, copy models.Copy) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO copies (id, book_id, imprint, status, due_back)
		 VALUES ($1, $2, $3, $4, $5)`,
		copy.ID, copy.BookID, copy.Imprint, string(copy.Status), copy.DueBack); err != nil {
		return fmt.Errorf("insert copy: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCopy(ctx context.Context, copy models.Copy) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE copies SET book_id = $2, imprint = $3, status = $4, due_back = $5
		 WHERE id = $1`,
		copy.ID, copy.BookID, copy.Imprint, string(copy.Status), copy.DueBack)
	if err != nil {
		return fmt.Errorf("update copy: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM copies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete copy: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountCopies(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM copies`)
}

func (s *PostgresStore) CountAvailableCopies(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM copies WHERE status = $1`, string(models.StatusAvailable)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count available copies: %w", err)
	}
	return n, nil
}

// ----- helpers -----

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanAuthors(rows *sql.Rows) ([]models.Author, error) {
	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.FamilyName, &a.DateOfBirth, &a.DateOfDeath); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
