package main

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

func testLogger() *applog.Logger {
	return applog.New(applog.Config{
		Level:     applog.ParseLevel("error"),
		Component: applog.ComponentEvents,
	})
}

func TestAuditHandlerAppendsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	handle := auditHandler(&buf, testLogger())

	created := events.NewEntryEvent(events.ActionCreated, string(core.KindIncome), "entry-1", "user-1", 700_00)
	deleted := events.NewEntryEvent(events.ActionDeleted, string(core.KindExpense), "entry-2", "user-1", 40_00)
	require.NoError(t, handle(created))
	require.NoError(t, handle(deleted))

	scanner := bufio.NewScanner(&buf)
	var lines [][]byte
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2, "one line per event")

	first, err := events.EntryEventFromJSON(lines[0])
	require.NoError(t, err)
	assert.Equal(t, events.ActionCreated, first.Action)
	assert.Equal(t, "entry-1", first.EntryID)
	assert.Equal(t, int64(700_00), first.AmountCents)

	second, err := events.EntryEventFromJSON(lines[1])
	require.NoError(t, err)
	assert.Equal(t, events.ActionDeleted, second.Action)
	assert.Equal(t, string(core.KindExpense), second.Kind)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestAuditHandlerPropagatesWriteFailure(t *testing.T) {
	sinkErr := errors.New("disk full")
	handle := auditHandler(failingWriter{err: sinkErr}, testLogger())

	err := handle(events.NewEntryEvent(events.ActionCreated, string(core.KindIncome), "entry-1", "user-1", 100))
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr, "a failed append must surface so the delivery is requeued")
}
