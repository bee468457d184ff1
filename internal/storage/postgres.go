package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u core.User) error {
	const query = `INSERT INTO users (id, email, password_hash, full_name, profile_image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.ProfileImageURL, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	const query = `SELECT id, email, password_hash, full_name, profile_image_url, created_at
		FROM users WHERE email = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (core.User, error) {
	const query = `SELECT id, email, password_hash, full_name, profile_image_url, created_at
		FROM users WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.ProfileImageURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) SetProfileImage(ctx context.Context, userID, imageURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET profile_image_url = $1 WHERE id = $2`, imageURL, userID)
	if err != nil {
		return fmt.Errorf("set profile image: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateEntry(ctx context.Context, e core.Entry) error {
	const query = `INSERT INTO entries (id, user_id, kind, label, amount_cents, date, icon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Kind), e.Label, e.Amount.Cents, e.Date.UTC(), e.Icon, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, userID string, kind core.Kind, limit, offset int) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND kind = $2
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) ListEntriesSince(ctx context.Context, userID string, kind core.Kind, since time.Time) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND kind = $2 AND date >= $3
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list entries since: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) ListRecentEntries(ctx context.Context, userID string, kind core.Kind, limit int) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND kind = $2
		ORDER BY date DESC, created_at DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) SumEntries(ctx context.Context, userID string, kind core.Kind) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM entries
		WHERE user_id = $1 AND kind = $2`

	var total int64
	if err := s.db.QueryRowContext(ctx, query, userID, string(kind)).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, userID string, kind core.Kind, id string) error {
	const query = `DELETE FROM entries WHERE id = $1 AND user_id = $2 AND kind = $3`

	res, err := s.db.ExecContext(ctx, query, id, userID, string(kind))
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
