package messages

import (
	"context"
	"fmt"

	"github.com/pr-poehali-dev/onlimess/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListInvolving(ctx context.Context, email string) ([]Message, error) {
	query :=
		`SELECT id, from_email, to_email, body, ts FROM messages
		 WHERE from_email = $1 OR to_email = $1
		 ORDER BY ts, id
		 `

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, msg *Message) (*Message, error) {
	query :=
		`INSERT INTO messages (from_email, to_email, body, ts)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, msg.From, msg.To, msg.Text, msg.Timestamp).Scan(&msg.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) DeleteBetween(ctx context.Context, a, b string) error {
	query :=
		`DELETE FROM messages
		 WHERE (from_email = $1 AND to_email = $2)
		    OR (from_email = $2 AND to_email = $1)
		 `

	if _, err := r.db.ExecContext(ctx, query, a, b); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
