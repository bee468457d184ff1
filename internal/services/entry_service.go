package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// EntryService orchestrates entry operations across the store and the
// event stream.
type EntryService struct {
	store  storage.Store
	events *events.Client
}

func NewEntryService(store storage.Store, eventsClient *events.Client) *EntryService {
	return &EntryService{
		store:  store,
		events: eventsClient,
	}
}

// Create validates and persists a new entry owned by userID, then publishes
// a created event.
func (s *EntryService) Create(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	if err := s.store.CreateEntry(ctx, e); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	// Publishing is best effort. The entry is already persisted.
	s.publish(ctx, events.NewEntryEvent(events.ActionCreated, string(e.Kind), e.ID, e.UserID, e.Amount.Cents))

	return e, nil
}

// List returns the user's entries of one kind, newest first.
func (s *EntryService) List(ctx context.Context, userID string, kind core.Kind, limit, offset int) ([]core.Entry, error) {
	entries, err := s.store.ListEntries(ctx, userID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// ListAll returns every entry of one kind for export, newest first.
func (s *EntryService) ListAll(ctx context.Context, userID string, kind core.Kind) ([]core.Entry, error) {
	entries, err := s.store.ListEntriesSince(ctx, userID, kind, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return entries, nil
}

// Delete removes an entry owned by userID and publishes a deleted event.
// Returns storage.ErrNotFound when the id is missing or owned by another
// user.
func (s *EntryService) Delete(ctx context.Context, userID string, kind core.Kind, id string) error {
	if err := s.store.DeleteEntry(ctx, userID, kind, id); err != nil {
		return err
	}

	s.publish(ctx, events.NewEntryEvent(events.ActionDeleted, string(kind), id, userID, 0))

	return nil
}

func (s *EntryService) publish(ctx context.Context, event *events.EntryEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntryEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"error", err,
			"action", event.Action,
			"entry_id", event.EntryID)
	}
}

// Close releases the store and event stream connections.
func (s *EntryService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}
	return nil
}
