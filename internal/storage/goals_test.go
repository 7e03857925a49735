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

func TestGoals(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		goal := testutil.MakeGoal(t, store, "Goa Trip", 5000000)

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, "Goa Trip", got.Name)
		assert.Equal(t, model.Money(5000000), got.TargetAmount)
		assert.Equal(t, model.Money(0), got.SavedAmount)
	})

	t.Run("create rejects non-positive target", func(t *testing.T) {
		err := store.CreateGoal(ctx, &model.SavingsGoal{ID: "goal-bad", Name: "Bad", TargetAmount: 0})
		require.Error(t, err)
	})

	t.Run("adjust saved amount", func(t *testing.T) {
		goal := testutil.MakeGoal(t, store, "Emergency Fund", 10000000)

		require.NoError(t, store.AdjustGoalSaved(ctx, goal.ID, 250000))
		require.NoError(t, store.AdjustGoalSaved(ctx, goal.ID, -100000))

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(150000), got.SavedAmount)
	})

	t.Run("adjust missing goal", func(t *testing.T) {
		err := store.AdjustGoalSaved(ctx, "no-such-goal", 100)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("schema rejects negative saved amount", func(t *testing.T) {
		goal := testutil.MakeGoal(t, store, "Floor Check", 100000)
		err := store.AdjustGoalSaved(ctx, goal.ID, -1)
		require.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		goal := testutil.MakeGoal(t, store, "Ephemeral", 100)
		require.NoError(t, store.DeleteGoal(ctx, goal.ID))
		require.NoError(t, store.DeleteGoal(ctx, goal.ID))

		_, err := store.GetGoal(ctx, goal.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
