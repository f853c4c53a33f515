package users

import (
	"context"
	"database/sql"
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

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	query :=
		`INSERT INTO users (username, password_hash, email, display_name, is_admin, is_frozen, has_logged_in)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.DisplayName,
		user.IsAdmin, user.IsFrozen, user.HasLoggedIn)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query :=
		`SELECT username, password_hash, email, display_name, is_admin, is_frozen, has_logged_in
		 FROM users
		 WHERE username = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT username, password_hash, email, display_name, is_admin, is_frozen, has_logged_in
		 FROM users
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(&user.Username, &user.PasswordHash, &user.Email, &user.DisplayName,
		&user.IsAdmin, &user.IsFrozen, &user.HasLoggedIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *User) error {
	query :=
		`UPDATE users
		 SET password_hash = $2, email = $3, display_name = $4,
		     is_admin = $5, is_frozen = $6, has_logged_in = $7
		 WHERE username = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.DisplayName,
		user.IsAdmin, user.IsFrozen, user.HasLoggedIn)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query :=
		`SELECT username, password_hash, email, display_name, is_admin, is_frozen, has_logged_in
		 FROM users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var user User
		err := rows.Scan(&user.Username, &user.PasswordHash, &user.Email, &user.DisplayName,
			&user.IsAdmin, &user.IsFrozen, &user.HasLoggedIn)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
