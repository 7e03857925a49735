package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/testutil"
)

func TestRecurrings(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	account := testutil.MakeAccount(t, store, "Rent Account")

	t.Run("create and get", func(t *testing.T) {
		schedule := &model.Recurring{
			ID:         "rec-1",
			Name:       "Rent",
			Amount:     2500000,
			Type:       model.EntryTypeExpense,
			AccountID:  account.ID,
			DayOfMonth: 5,
		}
		require.NoError(t, store.CreateRecurring(ctx, schedule))

		got, err := store.GetRecurring(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "Rent", got.Name)
		assert.Equal(t, 5, got.DayOfMonth)
		assert.Nil(t, got.LastApplied)
	})

	t.Run("day of month outside 1-28 rejected", func(t *testing.T) {
		err := store.CreateRecurring(ctx, &model.Recurring{
			ID:         "rec-bad",
			Name:       "Bad",
			Amount:     100,
			Type:       model.EntryTypeExpense,
			DayOfMonth: 31,
		})
		require.Error(t, err)
	})

	t.Run("mark applied", func(t *testing.T) {
		applied := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.MarkRecurringApplied(ctx, "rec-1", applied))

		got, err := store.GetRecurring(ctx, "rec-1")
		require.NoError(t, err)
		require.NotNil(t, got.LastApplied)
		assert.True(t, got.LastApplied.Equal(applied))
	})

	t.Run("mark applied on missing schedule", func(t *testing.T) {
		err := store.MarkRecurringApplied(ctx, "no-such", time.Now().UTC())
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteRecurring(ctx, "rec-1"))
		require.NoError(t, store.DeleteRecurring(ctx, "rec-1"))

		_, err := store.GetRecurring(ctx, "rec-1")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
