package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"biblio/internal/identity/models"
	"biblio/pkg/platform/sentinel"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, salt, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.PasswordHash, user.Salt, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.find(ctx,
		`SELECT id, username, password_hash, salt, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.find(ctx,
		`SELECT id, username, password_hash, salt, created_at FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) find(ctx context.Context, query string, arg any) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, sentinel.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
