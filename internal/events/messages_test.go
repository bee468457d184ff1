package events

import (
	"testing"
	"time"
)

func TestEntryEventJSONRoundTrip(t *testing.T) {
	event := NewEntryEvent(ActionCreated, "income", "entry-1", "user-1", 1234)

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	decoded, err := EntryEventFromJSON(data)
	if err != nil {
		t.Fatalf("EntryEventFromJSON failed: %v", err)
	}

	if decoded.Action != ActionCreated {
		t.Errorf("action = %q, want %q", decoded.Action, ActionCreated)
	}
	if decoded.Kind != "income" || decoded.EntryID != "entry-1" || decoded.UserID != "user-1" {
		t.Errorf("unexpected identity fields: %+v", decoded)
	}
	if decoded.AmountCents != 1234 {
		t.Errorf("amount_cents = %d, want 1234", decoded.AmountCents)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestNewEntryEventStampsTime(t *testing.T) {
	before := time.Now()
	event := NewEntryEvent(ActionDeleted, "expense", "entry-2", "user-2", 500)
	after := time.Now()

	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestEntryEventFromJSONInvalid(t *testing.T) {
	if _, err := EntryEventFromJSON([]byte(`{invalid`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
