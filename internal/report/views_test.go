package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/report"
	"github.com/rupeeledger/rupeeledger/internal/testutil"
)

func TestBudgetStatuses(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	r := ledger.NewReconciler(store)
	views := report.NewViews(store)

	now := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	food := model.DefaultCategoryID(model.DefaultCategoryFood)
	transport := model.DefaultCategoryID(model.DefaultCategoryTransport)

	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		CategoryID: food, Amount: 1000000, AlertThreshold: 0.8,
	}))
	require.NoError(t, store.SetBudget(ctx, &model.Budget{
		CategoryID: transport, Amount: 500000, AlertThreshold: 0.5,
	}))

	spend := func(categoryID string, amount model.Money, date time.Time) {
		t.Helper()
		entry := &model.Entry{
			Amount:     amount,
			Type:       model.EntryTypeExpense,
			CategoryID: categoryID,
			Date:       date,
		}
		require.NoError(t, r.Create(ctx, entry))
	}
	spend(food, 850000, now)
	spend(transport, 100000, now)
	// Last month's spend must not count.
	spend(transport, 999999, now.AddDate(0, -1, 0))

	t.Run("statuses join budgets with current-month spend", func(t *testing.T) {
		statuses, err := views.BudgetStatuses(ctx, now)
		require.NoError(t, err)
		require.Len(t, statuses, 2)

		byCategory := make(map[string]report.BudgetStatus, len(statuses))
		for _, status := range statuses {
			byCategory[status.CategoryID] = status
		}

		foodStatus := byCategory[food]
		assert.Equal(t, model.DefaultCategoryFood, foodStatus.CategoryName)
		assert.Equal(t, model.Money(850000), foodStatus.Spent)
		assert.InDelta(t, 0.85, foodStatus.Percentage, 1e-9)
		assert.True(t, foodStatus.OverAlert())

		transportStatus := byCategory[transport]
		assert.Equal(t, model.Money(100000), transportStatus.Spent)
		assert.InDelta(t, 0.2, transportStatus.Percentage, 1e-9)
		assert.False(t, transportStatus.OverAlert())
	})

	t.Run("over-alert filter", func(t *testing.T) {
		over, err := views.OverAlertBudgets(ctx, now)
		require.NoError(t, err)
		require.Len(t, over, 1)
		assert.Equal(t, food, over[0].CategoryID)
	})

	t.Run("budget with no spend reads zero", func(t *testing.T) {
		bills := model.DefaultCategoryID(model.DefaultCategoryBills)
		require.NoError(t, store.SetBudget(ctx, &model.Budget{
			CategoryID: bills, Amount: 200000, AlertThreshold: 0.9,
		}))

		statuses, err := views.BudgetStatuses(ctx, now)
		require.NoError(t, err)
		require.Len(t, statuses, 3)
		for _, status := range statuses {
			if status.CategoryID == bills {
				assert.Equal(t, model.Money(0), status.Spent)
				assert.Equal(t, model.DefaultCategoryBills, status.CategoryName)
				assert.False(t, status.OverAlert())
			}
		}
	})
}

func TestRecurringDueSoon(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	views := report.NewViews(store)

	now := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)

	create := func(id, name string, day int, lastApplied time.Time) {
		t.Helper()
		require.NoError(t, store.CreateRecurring(ctx, &model.Recurring{
			ID:          id,
			Name:        name,
			Amount:      100000,
			Type:        model.EntryTypeExpense,
			DayOfMonth:  day,
			LastApplied: &lastApplied,
		}))
	}
	// Due Sep 5 and Sep 1: inside a 10-day horizon.
	create("rec-rent", "Rent", 5, time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC))
	create("rec-gym", "Gym", 1, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))
	// Due Sep 20: outside.
	create("rec-ott", "Streaming", 20, time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC))

	due, err := views.RecurringDueSoon(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Soonest first.
	assert.Equal(t, "Gym", due[0].Recurring.Name)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), due[0].Due)
	assert.Equal(t, "Rent", due[1].Recurring.Name)

	none, err := views.RecurringDueSoon(ctx, now, 3)
	require.NoError(t, err)
	assert.Len(t, none, 1) // only the Sep 1 schedule
	assert.Equal(t, "Gym", none[0].Recurring.Name)
}
