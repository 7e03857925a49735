package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/storage"
	"github.com/rupeeledger/rupeeledger/internal/testutil"
)

func TestGetMonthlySummary(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	save := func(id string, amount model.Money, entryType model.EntryType, date time.Time) {
		t.Helper()
		require.NoError(t, store.SaveEntry(ctx, &model.Entry{
			ID: id, Amount: amount, Type: entryType, Date: date,
		}))
	}

	august := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	save("m-1", 5000000, model.EntryTypeIncome, august)
	save("m-2", 120000, model.EntryTypeExpense, august)
	save("m-3", 80000, model.EntryTypeExpense, august.AddDate(0, 0, 5))
	// Outside the month.
	save("m-4", 999999, model.EntryTypeExpense, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	summary, err := store.GetMonthlySummary(ctx, 2026, time.August)
	require.NoError(t, err)
	assert.Equal(t, model.Money(5000000), summary.Income)
	assert.Equal(t, model.Money(200000), summary.Expense)
	assert.Equal(t, model.Money(4800000), summary.Net())

	empty, err := store.GetMonthlySummary(ctx, 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, model.Money(0), empty.Income)
	assert.Equal(t, model.Money(0), empty.Expense)
}

func TestGetSpendForDay(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	day := time.Date(2026, time.August, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "d-1", Amount: 45000, Type: model.EntryTypeExpense, Date: day,
	}))
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "d-2", Amount: 5000, Type: model.EntryTypeExpense, Date: day.Add(8 * time.Hour),
	}))
	// Income never counts as spend.
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "d-3", Amount: 100000, Type: model.EntryTypeIncome, Date: day,
	}))
	// Previous day.
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "d-4", Amount: 77777, Type: model.EntryTypeExpense, Date: day.AddDate(0, 0, -1),
	}))

	spent, err := store.GetSpendForDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, model.Money(50000), spent)
}

func TestGetCategorySpend(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	food := model.DefaultCategoryID(model.DefaultCategoryFood)
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "c-1", Amount: 30000, Type: model.EntryTypeExpense, CategoryID: food, Date: date,
	}))
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "c-2", Amount: 20000, Type: model.EntryTypeExpense, CategoryID: food, Date: date,
	}))
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "c-3", Amount: 10000, Type: model.EntryTypeExpense, Date: date,
	}))

	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	spend, err := store.GetCategorySpend(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, spend, 2)

	// Ordered by spend, largest first.
	assert.Equal(t, model.DefaultCategoryFood, spend[0].CategoryName)
	assert.Equal(t, model.Money(50000), spend[0].Spent)
	assert.Equal(t, 2, spend[0].Count)

	assert.Equal(t, storage.UncategorizedLabel, spend[1].CategoryName)
	assert.Equal(t, model.Money(10000), spend[1].Spent)
}

func TestGetRecentEntries(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	account := testutil.MakeAccount(t, store, "Display Account")
	food := model.DefaultCategoryID(model.DefaultCategoryFood)

	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "r-1", Amount: 10000, Type: model.EntryTypeExpense,
		CategoryID: food, AccountID: account.ID,
		Date: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "r-2", Amount: 20000, Type: model.EntryTypeExpense,
		CategoryID: "deleted-category", AccountID: "deleted-account",
		Date: time.Date(2026, time.August, 11, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.SaveEntry(ctx, &model.Entry{
		ID: "r-3", Amount: 30000, Type: model.EntryTypeExpense,
		Date: time.Date(2026, time.August, 12, 0, 0, 0, 0, time.UTC),
	}))

	recent, err := store.GetRecentEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first. No account assigned: blank, not "Unknown".
	assert.Equal(t, "r-3", recent[0].Entry.ID)
	assert.Equal(t, storage.UncategorizedLabel, recent[0].CategoryName)
	assert.Empty(t, recent[0].AccountName)

	// Orphaned references degrade to placeholders.
	assert.Equal(t, "r-2", recent[1].Entry.ID)
	assert.Equal(t, storage.UncategorizedLabel, recent[1].CategoryName)
	assert.Equal(t, storage.UnknownAccountLabel, recent[1].AccountName)

	assert.Equal(t, "r-1", recent[2].Entry.ID)
	assert.Equal(t, model.DefaultCategoryFood, recent[2].CategoryName)
	assert.Equal(t, "Display Account", recent[2].AccountName)
}
