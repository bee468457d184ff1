// Package backend selects and constructs the persistence backend from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Type represents the kind of persistence backend
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Factory creates stores based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the store the config asks for. The caller owns Close.
func (f *Factory) CreateStore(cfg *config.Config) (storage.Store, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case PostgresBackend:
		store, err := storage.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		f.logger.Info("Initialized postgres backend", "backend", backendType.String())
		return store, nil
	default:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite backend",
			"backend", backendType.String(),
			"db_path", cfg.SQLiteDBPath)
		return store, nil
	}
}
