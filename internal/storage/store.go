// Package storage persists users and ledger entries. Two implementations
// exist: sqlite (default, embedded) and postgres. Both are driven by the
// same embedded migration source.
package storage

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when a row does not exist or does not belong
	// to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence contract shared by all backends.
type Store interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id string) (core.User, error)
	SetProfileImage(ctx context.Context, userID, imageURL string) error

	CreateEntry(ctx context.Context, e core.Entry) error
	// ListEntries returns the user's entries of one kind, date descending,
	// windowed by limit/offset.
	ListEntries(ctx context.Context, userID string, kind core.Kind, limit, offset int) ([]core.Entry, error)
	// ListEntriesSince returns entries dated at or after since, date descending.
	ListEntriesSince(ctx context.Context, userID string, kind core.Kind, since time.Time) ([]core.Entry, error)
	// ListRecentEntries returns the limit most recent entries of one kind.
	ListRecentEntries(ctx context.Context, userID string, kind core.Kind, limit int) ([]core.Entry, error)
	// SumEntries returns the total amount in cents across the user's whole
	// history for one kind; zero when there are no rows.
	SumEntries(ctx context.Context, userID string, kind core.Kind) (int64, error)
	// DeleteEntry removes an entry owned by userID. ErrNotFound when the id
	// does not exist or belongs to someone else.
	DeleteEntry(ctx context.Context, userID string, kind core.Kind, id string) error

	Close() error
}
