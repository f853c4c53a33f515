package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]Contact, error) {
	query :=
		`SELECT owner_email, email, display_name FROM contacts
		 WHERE owner_email = $1
		 ORDER BY lower(display_name), email
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.OwnerEmail, &c.Email, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *Contact) error {
	query :=
		`INSERT INTO contacts (owner_email, email, display_name)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, contact.OwnerEmail, contact.Email, contact.DisplayName)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, ownerEmail, email, displayName string) error {
	query :=
		`UPDATE contacts SET display_name = $3
		 WHERE owner_email = $1 AND email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ownerEmail, email, displayName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res.RowsAffected())
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerEmail, email string) error {
	query :=
		`DELETE FROM contacts
		 WHERE owner_email = $1 AND email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ownerEmail, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res.RowsAffected())
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
