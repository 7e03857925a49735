// Package testutil provides shared fixtures for tests that need a real
// database: an in-memory store with migrations applied and defaults seeded,
// plus builders for the entities most tests need.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
	"github.com/rupeeledger/rupeeledger/internal/storage"
)

// SetupTestDB creates an in-memory database with migrations run and the
// default categories seeded. Cleanup is registered automatically.
func SetupTestDB(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := store.SeedDefaultCategories(ctx); err != nil {
		t.Fatalf("failed to seed default categories: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// MakeAccount creates a bank account and returns it.
func MakeAccount(t *testing.T, store service.Storage, name string) *model.Account {
	t.Helper()

	account := &model.Account{
		ID:   uuid.NewString(),
		Name: name,
		Type: model.AccountTypeBank,
	}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account %q: %v", name, err)
	}
	return account
}

// MakeCategory creates a custom expense category and returns it.
func MakeCategory(t *testing.T, store service.Storage, name string) *model.Category {
	t.Helper()

	category := &model.Category{
		ID:   uuid.NewString(),
		Name: name,
		Type: model.CategoryTypeExpense,
	}
	if err := store.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return category
}

// MakeGoal creates a savings goal with the given target and returns it.
func MakeGoal(t *testing.T, store service.Storage, name string, target model.Money) *model.SavingsGoal {
	t.Helper()

	goal := &model.SavingsGoal{
		ID:           uuid.NewString(),
		Name:         name,
		TargetAmount: target,
	}
	if err := store.CreateGoal(context.Background(), goal); err != nil {
		t.Fatalf("failed to create goal %q: %v", name, err)
	}
	return goal
}

// NewEntry builds an unpersisted expense entry dated now.
func NewEntry(amount model.Money, accountID string) *model.Entry {
	return &model.Entry{
		ID:        uuid.NewString(),
		Amount:    amount,
		Type:      model.EntryTypeExpense,
		AccountID: accountID,
		Date:      time.Now().UTC(),
	}
}
