// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

// EntryFilter defines filtering options for ledger entry queries.
type EntryFilter struct {
	Start      *time.Time
	End        *time.Time
	AccountID  string
	CategoryID string
	Limit      int
	Offset     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	// AdjustAccountBalance applies a signed delta as a single transactional
	// increment, never a read-then-write from application code.
	AdjustAccountBalance(ctx context.Context, accountID string, delta model.Money) error

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	SeedDefaultCategories(ctx context.Context) error

	// Categorization rule operations
	GetRules(ctx context.Context) ([]model.Rule, error)
	CreateRule(ctx context.Context, rule *model.Rule) error
	UpdateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, id string) error

	// Ledger entry operations
	SaveEntry(ctx context.Context, entry *model.Entry) error
	GetEntry(ctx context.Context, id string) (*model.Entry, error)
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteEntry(ctx context.Context, id string) error
	GetEntries(ctx context.Context, filter EntryFilter) ([]model.Entry, error)
	// SumAccountEntries recomputes an account's balance from scratch.
	// Repair-only: incremental adjustments are authoritative.
	SumAccountEntries(ctx context.Context, accountID string) (model.Money, error)

	// Budget operations
	SetBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, categoryID string) error

	// Savings goal operations
	CreateGoal(ctx context.Context, goal *model.SavingsGoal) error
	GetGoal(ctx context.Context, id string) (*model.SavingsGoal, error)
	GetGoals(ctx context.Context) ([]model.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id string) error
	// AdjustGoalSaved applies a signed delta to SavedAmount as a single
	// transactional increment. Callers clamp before calling.
	AdjustGoalSaved(ctx context.Context, goalID string, delta model.Money) error

	// Recurring schedule operations
	CreateRecurring(ctx context.Context, recurring *model.Recurring) error
	GetRecurring(ctx context.Context, id string) (*model.Recurring, error)
	GetRecurrings(ctx context.Context) ([]model.Recurring, error)
	DeleteRecurring(ctx context.Context, id string) error
	MarkRecurringApplied(ctx context.Context, id string, appliedAt time.Time) error

	// Aggregate queries
	GetMonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error)
	GetSpendForDay(ctx context.Context, day time.Time) (model.Money, error)
	GetCategorySpend(ctx context.Context, start, end time.Time) ([]CategorySpend, error)
	GetRecentEntries(ctx context.Context, limit int) ([]EntryDisplay, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents a database transaction. All Storage methods invoked through
// it share one atomic commit scope.
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}

// MonthlySummary contains income and expense totals for one calendar month.
type MonthlySummary struct {
	Year    int
	Month   time.Month
	Income  model.Money
	Expense model.Money
}

// Net returns income minus expenses for the month.
func (m MonthlySummary) Net() model.Money {
	return m.Income - m.Expense
}

// CategorySpend contains aggregated expense totals for one category.
// CategoryName degrades to "Uncategorized" when the category was deleted or
// never assigned.
type CategorySpend struct {
	CategoryID   string
	CategoryName string
	Spent        model.Money
	Count        int
}

// EntryDisplay joins a ledger entry with display info for its category and
// account. Orphaned references degrade to placeholder labels rather than
// failing the query.
type EntryDisplay struct {
	Entry        model.Entry
	CategoryName string
	AccountName  string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
