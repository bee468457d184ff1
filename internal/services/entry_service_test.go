package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func validEntry(userID string, kind core.Kind) core.Entry {
	return core.Entry{
		UserID: userID,
		Kind:   kind,
		Label:  "Salary",
		Amount: core.Money{Cents: 1200_50},
		Date:   core.NewDate(2025, 7, 15),
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	store := newFakeStore()
	svc := NewEntryService(store, nil)

	created, err := svc.Create(context.Background(), validEntry("user-1", core.KindIncome))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := store.ListEntries(context.Background(), "user-1", core.KindIncome, 10, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, created.ID, stored[0].ID)
}

func TestCreateRejectsInvalidEntry(t *testing.T) {
	store := newFakeStore()
	svc := NewEntryService(store, nil)

	tests := []struct {
		name    string
		mutate  func(e *core.Entry)
		wantErr error
	}{
		{"zero amount", func(e *core.Entry) { e.Amount.Cents = 0 }, core.ErrInvalidAmount},
		{"negative amount", func(e *core.Entry) { e.Amount.Cents = -100 }, core.ErrInvalidAmount},
		{"empty label", func(e *core.Entry) { e.Label = "  " }, core.ErrEmptyLabel},
		{"zero date", func(e *core.Entry) { e.Date = core.Date{} }, core.ErrInvalidDate},
		{"bad kind", func(e *core.Entry) { e.Kind = "transfer" }, core.ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry("user-1", core.KindExpense)
			tt.mutate(&e)

			_, err := svc.Create(context.Background(), e)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.entries, "rejected entry must not be stored")
		})
	}
}

func TestDeleteOwnership(t *testing.T) {
	store := newFakeStore()
	svc := NewEntryService(store, nil)

	created, err := svc.Create(context.Background(), validEntry("user-1", core.KindExpense))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-2", core.KindExpense, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "foreign user must not delete the entry")

	err = svc.Delete(context.Background(), "user-1", core.KindIncome, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "kind mismatch behaves as missing")

	require.NoError(t, svc.Delete(context.Background(), "user-1", core.KindExpense, created.ID))

	err = svc.Delete(context.Background(), "user-1", core.KindExpense, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "second delete finds nothing")
}

func TestListAllForExport(t *testing.T) {
	store := newFakeStore()
	svc := NewEntryService(store, nil)

	for day := 1; day <= 3; day++ {
		e := validEntry("user-1", core.KindIncome)
		e.Date = core.NewDate(2025, 6, day)
		_, err := svc.Create(context.Background(), e)
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), validEntry("user-1", core.KindExpense))
	require.NoError(t, err)

	all, err := svc.ListAll(context.Background(), "user-1", core.KindIncome)
	require.NoError(t, err)
	require.Len(t, all, 3, "export covers every record of the kind")
	assert.True(t, all[0].Date.After(all[1].Date.Time), "newest first")
}
