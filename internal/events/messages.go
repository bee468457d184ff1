package events

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EntryEvent describes one entry lifecycle change. Consumers that need the
// full record fetch it by EntryID.
type EntryEvent struct {
	Action      string    `json:"action"`
	Kind        string    `json:"kind"`
	EntryID     string    `json:"entry_id"`
	UserID      string    `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryEvent creates an event stamped with the current time.
func NewEntryEvent(action, kind, entryID, userID string, amountCents int64) *EntryEvent {
	return &EntryEvent{
		Action:      action,
		Kind:        kind,
		EntryID:     entryID,
		UserID:      userID,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntryEventFromJSON creates an event from JSON bytes
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var event EntryEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
