package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u core.User) error {
	const query = `INSERT INTO users (id, email, password_hash, full_name, profile_image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.ProfileImageURL, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved", "user_id", u.ID)
	return nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	const query = `SELECT id, email, password_hash, full_name, profile_image_url, created_at
		FROM users WHERE email = ?`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (core.User, error) {
	const query = `SELECT id, email, password_hash, full_name, profile_image_url, created_at
		FROM users WHERE id = ?`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (core.User, error) {
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

func (s *SQLiteStore) SetProfileImage(ctx context.Context, userID, imageURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET profile_image_url = ? WHERE id = ?`, imageURL, userID)
	if err != nil {
		return fmt.Errorf("set profile image: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateEntry(ctx context.Context, e core.Entry) error {
	const query = `INSERT INTO entries (id, user_id, kind, label, amount_cents, date, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Timestamps are stored as text; normalizing to UTC keeps date
	// comparisons consistent regardless of the writer's zone.
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Kind), e.Label, e.Amount.Cents, e.Date.UTC(), e.Icon, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"entry_id", e.ID,
		"entry_kind", string(e.Kind),
		"amount_cents", e.Amount.Cents,
		"user_id", e.UserID)
	return nil
}

const entryColumns = `id, user_id, kind, label, amount_cents, date, icon, created_at`

func (s *SQLiteStore) ListEntries(ctx context.Context, userID string, kind core.Kind, limit, offset int) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND kind = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) ListEntriesSince(ctx context.Context, userID string, kind core.Kind, since time.Time) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND kind = ? AND date >= ?
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list entries since: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) ListRecentEntries(ctx context.Context, userID string, kind core.Kind, limit int) ([]core.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = ? AND kind = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) SumEntries(ctx context.Context, userID string, kind core.Kind) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM entries
		WHERE user_id = ? AND kind = ?`

	var total int64
	if err := s.db.QueryRowContext(ctx, query, userID, string(kind)).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, userID string, kind core.Kind, id string) error {
	// Ownership is enforced here: the delete matches id AND owner AND kind,
	// so a foreign id is indistinguishable from a missing one.
	const query = `DELETE FROM entries WHERE id = ? AND user_id = ? AND kind = ?`

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

	slog.InfoContext(ctx, "Entry deleted", "entry_id", id, "entry_kind", string(kind), "user_id", userID)
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows rowScanner) ([]core.Entry, error) {
	var entries []core.Entry
	for rows.Next() {
		var (
			e    core.Entry
			kind string
			date time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &e.Label, &e.Amount.Cents, &date, &e.Icon, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Kind = core.Kind(kind)
		e.Date = core.Date{Time: date}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
