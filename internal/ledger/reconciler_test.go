package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/ledger"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
	"github.com/rupeeledger/rupeeledger/internal/testutil"
)

func balance(t *testing.T, store service.Storage, accountID string) model.Money {
	t.Helper()
	account, err := store.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance
}

func TestReconcilerCreate(t *testing.T) {
	store := testutil.SetupTestDB(t)
	r := ledger.NewReconciler(store)
	ctx := context.Background()

	account := testutil.MakeAccount(t, store, "Main")

	t.Run("income raises the balance", func(t *testing.T) {
		entry := &model.Entry{
			Amount:    100000,
			Type:      model.EntryTypeIncome,
			AccountID: account.ID,
			Date:      time.Now().UTC(),
		}
		require.NoError(t, r.Create(ctx, entry))
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, model.Money(100000), balance(t, store, account.ID))
	})

	t.Run("expense lowers the balance", func(t *testing.T) {
		entry := testutil.NewEntry(50000, account.ID)
		require.NoError(t, r.Create(ctx, entry))
		assert.Equal(t, model.Money(50000), balance(t, store, account.ID))
	})

	t.Run("entry without an account affects no balance", func(t *testing.T) {
		entry := testutil.NewEntry(99999, "")
		require.NoError(t, r.Create(ctx, entry))
		assert.Equal(t, model.Money(50000), balance(t, store, account.ID))
	})

	t.Run("unknown account leaves everything unchanged", func(t *testing.T) {
		entry := testutil.NewEntry(1000, "no-such-account")
		err := r.Create(ctx, entry)
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = store.GetEntry(ctx, entry.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("unknown category leaves everything unchanged", func(t *testing.T) {
		entry := testutil.NewEntry(1000, account.ID)
		entry.CategoryID = "no-such-category"
		err := r.Create(ctx, entry)
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Equal(t, model.Money(50000), balance(t, store, account.ID))
	})

	t.Run("validation failures reject the entry", func(t *testing.T) {
		err := r.Create(ctx, &model.Entry{Amount: -5, Type: model.EntryTypeExpense, Date: time.Now().UTC()})
		assert.ErrorIs(t, err, common.ErrValidation)

		err = r.Create(ctx, &model.Entry{Amount: 100, Type: "TRANSFER", Date: time.Now().UTC()})
		assert.ErrorIs(t, err, common.ErrValidation)

		err = r.Create(ctx, nil)
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestReconcilerUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change applies the combined delta", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := testutil.MakeAccount(t, store, "Main")

		income := &model.Entry{Amount: 100000, Type: model.EntryTypeIncome, AccountID: account.ID, Date: time.Now().UTC()}
		require.NoError(t, r.Create(ctx, income))
		expense := testutil.NewEntry(50000, account.ID)
		require.NoError(t, r.Create(ctx, expense))
		require.Equal(t, model.Money(50000), balance(t, store, account.ID))

		expense.Amount = 30000
		require.NoError(t, r.Update(ctx, expense))
		assert.Equal(t, model.Money(70000), balance(t, store, account.ID))
	})

	t.Run("moving the entry between accounts reverses and reapplies", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		a := testutil.MakeAccount(t, store, "A")
		b := testutil.MakeAccount(t, store, "B")

		entry := testutil.NewEntry(20000, a.ID)
		require.NoError(t, r.Create(ctx, entry))
		require.Equal(t, model.Money(-20000), balance(t, store, a.ID))

		entry.AccountID = b.ID
		require.NoError(t, r.Update(ctx, entry))
		assert.Equal(t, model.Money(0), balance(t, store, a.ID))
		assert.Equal(t, model.Money(-20000), balance(t, store, b.ID))
	})

	t.Run("type flip swings the balance by twice the amount", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := testutil.MakeAccount(t, store, "Flip")

		entry := testutil.NewEntry(10000, account.ID)
		require.NoError(t, r.Create(ctx, entry))
		require.Equal(t, model.Money(-10000), balance(t, store, account.ID))

		entry.Type = model.EntryTypeIncome
		require.NoError(t, r.Update(ctx, entry))
		assert.Equal(t, model.Money(10000), balance(t, store, account.ID))
	})

	t.Run("detaching the account reverses the effect", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := testutil.MakeAccount(t, store, "Detach")

		entry := testutil.NewEntry(5000, account.ID)
		require.NoError(t, r.Create(ctx, entry))

		entry.AccountID = ""
		require.NoError(t, r.Update(ctx, entry))
		assert.Equal(t, model.Money(0), balance(t, store, account.ID))
	})

	t.Run("missing entry", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)

		entry := testutil.NewEntry(1000, "")
		entry.ID = "no-such-entry"
		err := r.Update(ctx, entry)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("invalid new values leave the old entry intact", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := testutil.MakeAccount(t, store, "Intact")

		entry := testutil.NewEntry(10000, account.ID)
		require.NoError(t, r.Create(ctx, entry))

		bad := *entry
		bad.Amount = -1
		err := r.Update(ctx, &bad)
		assert.ErrorIs(t, err, common.ErrValidation)

		got, err := store.GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(10000), got.Amount)
		assert.Equal(t, model.Money(-10000), balance(t, store, account.ID))
	})
}

func TestReconcilerDelete(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	r := ledger.NewReconciler(store)
	account := testutil.MakeAccount(t, store, "Main")

	entry := testutil.NewEntry(30000, account.ID)
	require.NoError(t, r.Create(ctx, entry))
	require.Equal(t, model.Money(-30000), balance(t, store, account.ID))

	t.Run("delete reverses the effect", func(t *testing.T) {
		require.NoError(t, r.Delete(ctx, entry.ID))
		assert.Equal(t, model.Money(0), balance(t, store, account.ID))
	})

	t.Run("second delete is a no-op", func(t *testing.T) {
		require.NoError(t, r.Delete(ctx, entry.ID))
		assert.Equal(t, model.Money(0), balance(t, store, account.ID))
	})

	t.Run("empty id rejected", func(t *testing.T) {
		assert.ErrorIs(t, r.Delete(ctx, ""), common.ErrValidation)
	})
}

func TestUpdateEqualsDeletePlusCreate(t *testing.T) {
	// The balance after an update must equal the balance after deleting the
	// old entry and creating the new one.
	ctx := context.Background()

	runUpdate := func(t *testing.T) model.Money {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := &model.Account{ID: "acct", Name: "Law", Type: model.AccountTypeBank}
		require.NoError(t, store.CreateAccount(ctx, account))

		entry := testutil.NewEntry(45000, account.ID)
		require.NoError(t, r.Create(ctx, entry))
		entry.Amount = 12000
		entry.Type = model.EntryTypeIncome
		require.NoError(t, r.Update(ctx, entry))
		return balance(t, store, account.ID)
	}

	runDeleteCreate := func(t *testing.T) model.Money {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := &model.Account{ID: "acct", Name: "Law", Type: model.AccountTypeBank}
		require.NoError(t, store.CreateAccount(ctx, account))

		entry := testutil.NewEntry(45000, account.ID)
		require.NoError(t, r.Create(ctx, entry))
		require.NoError(t, r.Delete(ctx, entry.ID))

		replacement := testutil.NewEntry(12000, account.ID)
		replacement.Type = model.EntryTypeIncome
		require.NoError(t, r.Create(ctx, replacement))
		return balance(t, store, account.ID)
	}

	assert.Equal(t, runDeleteCreate(t), runUpdate(t))
}

func TestGoals(t *testing.T) {
	ctx := context.Background()

	t.Run("contribute and withdraw", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		goal := testutil.MakeGoal(t, store, "Laptop", 8000000)

		require.NoError(t, r.Contribute(ctx, goal.ID, 500000))

		withdrawn, err := r.Withdraw(ctx, goal.ID, 200000)
		require.NoError(t, err)
		assert.Equal(t, model.Money(200000), withdrawn)

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(300000), got.SavedAmount)
	})

	t.Run("withdraw clamps at zero and reports the shortfall", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		goal := testutil.MakeGoal(t, store, "Short", 1000000)
		require.NoError(t, r.Contribute(ctx, goal.ID, 100000))

		withdrawn, err := r.Withdraw(ctx, goal.ID, 500000)
		assert.ErrorIs(t, err, common.ErrInvalidOperation)
		assert.Equal(t, model.Money(100000), withdrawn)

		// The clamped withdrawal still committed.
		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(0), got.SavedAmount)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		goal := testutil.MakeGoal(t, store, "Zero", 1000)

		assert.ErrorIs(t, r.Contribute(ctx, goal.ID, 0), common.ErrValidation)
		_, err := r.Withdraw(ctx, goal.ID, -5)
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("missing goal", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)

		assert.ErrorIs(t, r.Contribute(ctx, "no-such-goal", 100), common.ErrNotFound)
	})
}

func TestGoalLinkedEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("expense entry linked to a goal contributes", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		account := testutil.MakeAccount(t, store, "Main")
		goal := testutil.MakeGoal(t, store, "Bike", 10000000)

		entry := testutil.NewEntry(250000, account.ID)
		entry.GoalID = goal.ID
		require.NoError(t, r.Create(ctx, entry))

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(250000), got.SavedAmount)
		assert.Equal(t, model.Money(-250000), balance(t, store, account.ID))
	})

	t.Run("deleting a linked entry reverses the contribution", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		goal := testutil.MakeGoal(t, store, "Bike", 10000000)

		entry := testutil.NewEntry(250000, "")
		entry.GoalID = goal.ID
		require.NoError(t, r.Create(ctx, entry))
		require.NoError(t, r.Delete(ctx, entry.ID))

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(0), got.SavedAmount)
	})

	t.Run("reversal clamps at zero when progress was withdrawn meanwhile", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		r := ledger.NewReconciler(store)
		goal := testutil.MakeGoal(t, store, "Drained", 10000000)

		entry := testutil.NewEntry(250000, "")
		entry.GoalID = goal.ID
		require.NoError(t, r.Create(ctx, entry))

		// Drain the goal behind the entry's back, then delete the entry.
		_, err := r.Withdraw(ctx, goal.ID, 250000)
		require.NoError(t, err)
		require.NoError(t, r.Delete(ctx, entry.ID))

		got, err := store.GetGoal(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.Money(0), got.SavedAmount)
	})
}

func TestRepair(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	r := ledger.NewReconciler(store)

	healthy := testutil.MakeAccount(t, store, "Healthy")
	drifted := testutil.MakeAccount(t, store, "Drifted")

	require.NoError(t, r.Create(ctx, testutil.NewEntry(10000, healthy.ID)))
	require.NoError(t, r.Create(ctx, testutil.NewEntry(20000, drifted.ID)))

	// Inject drift directly, bypassing the reconciler.
	require.NoError(t, store.AdjustAccountBalance(ctx, drifted.ID, 5000))

	drifts, err := r.Repair(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, drifted.ID, drifts[0].AccountID)
	assert.Equal(t, model.Money(-15000), drifts[0].Stored)
	assert.Equal(t, model.Money(-20000), drifts[0].Computed)

	assert.Equal(t, model.Money(-20000), balance(t, store, drifted.ID))
	assert.Equal(t, model.Money(-10000), balance(t, store, healthy.ID))

	// A second run finds nothing.
	drifts, err = r.Repair(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
