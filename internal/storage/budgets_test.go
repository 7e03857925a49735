package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/testutil"
)

func TestBudgets(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	category := testutil.MakeCategory(t, store, "Eating Out")

	t.Run("set requires an existing category", func(t *testing.T) {
		err := store.SetBudget(ctx, &model.Budget{
			CategoryID:     "no-such-category",
			Amount:         500000,
			AlertThreshold: 0.8,
		})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("set and list", func(t *testing.T) {
		require.NoError(t, store.SetBudget(ctx, &model.Budget{
			CategoryID:     category.ID,
			Amount:         500000,
			AlertThreshold: 0.8,
		}))

		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.Equal(t, model.Money(500000), budgets[0].Amount)
		assert.InDelta(t, 0.8, budgets[0].AlertThreshold, 1e-9)
	})

	t.Run("set again replaces", func(t *testing.T) {
		require.NoError(t, store.SetBudget(ctx, &model.Budget{
			CategoryID:     category.ID,
			Amount:         750000,
			AlertThreshold: 0.9,
		}))

		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.Equal(t, model.Money(750000), budgets[0].Amount)
	})

	t.Run("invalid threshold rejected", func(t *testing.T) {
		err := store.SetBudget(ctx, &model.Budget{
			CategoryID:     category.ID,
			Amount:         100,
			AlertThreshold: 1.5,
		})
		require.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteBudget(ctx, category.ID))
		require.NoError(t, store.DeleteBudget(ctx, category.ID))

		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		assert.Empty(t, budgets)
	})
}
