package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	var userID any
	if event.UserID != uuid.Nil {
		userID = event.UserID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, category, action, user_id, subject, request_id, at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, string(event.Category), string(event.Action), userID,
		event.Subject, event.RequestID, event.At)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, action, user_id, subject, request_id, at
		 FROM audit_events ORDER BY at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var userID sql.Null[uuid.UUID]
		if err := rows.Scan(&event.ID, &event.Category, &event.Action,
			&userID, &event.Subject, &event.RequestID, &event.At); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if userID.Valid {
			event.UserID = userID.V
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
