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

func TestSeedDefaultCategories(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 9)

	byName := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byName[cat.Name] = cat
	}

	food, ok := byName[model.DefaultCategoryFood]
	require.True(t, ok)
	assert.True(t, food.IsDefault)
	assert.Equal(t, model.DefaultCategoryID(model.DefaultCategoryFood), food.ID)

	salary, ok := byName[model.DefaultCategorySalary]
	require.True(t, ok)
	assert.Equal(t, model.CategoryTypeIncome, salary.Type)

	// Seeding again must not duplicate anything.
	require.NoError(t, store.SeedDefaultCategories(ctx))
	categories, err = store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 9)
}

func TestCategoryCRUD(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	t.Run("create and get custom category", func(t *testing.T) {
		category := testutil.MakeCategory(t, store, "Pet Care")

		got, err := store.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pet Care", got.Name)
		assert.False(t, got.IsDefault)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		testutil.MakeCategory(t, store, "Unique Name")
		err := store.CreateCategory(ctx, &model.Category{
			ID:   "dup-id",
			Name: "Unique Name",
			Type: model.CategoryTypeExpense,
		})
		require.Error(t, err)
	})

	t.Run("update display fields", func(t *testing.T) {
		category := testutil.MakeCategory(t, store, "Rename Me")
		category.Name = "Renamed"
		category.Color = "#112233"
		require.NoError(t, store.UpdateCategory(ctx, category))

		got, err := store.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "#112233", got.Color)
	})

	t.Run("delete custom category is idempotent", func(t *testing.T) {
		category := testutil.MakeCategory(t, store, "Short Lived")
		require.NoError(t, store.DeleteCategory(ctx, category.ID))
		require.NoError(t, store.DeleteCategory(ctx, category.ID))
	})

	t.Run("default category cannot be deleted", func(t *testing.T) {
		err := store.DeleteCategory(ctx, model.DefaultCategoryID(model.DefaultCategoryFood))
		assert.ErrorIs(t, err, common.ErrValidation)

		_, err = store.GetCategory(ctx, model.DefaultCategoryID(model.DefaultCategoryFood))
		assert.NoError(t, err)
	})
}
