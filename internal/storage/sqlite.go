package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every query helper can
// run either directly or inside a transaction scope.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes all writers, which gives every balance
	// adjustment read-modify-write atomicity per account.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", markRetryable(err))
	}

	return &sqliteTx{tx: tx}, nil
}

// markRetryable flags transient lock contention (another process holds the
// database) so callers running under common.WithRetry try again instead of
// failing outright.
func markRetryable(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}

// sqliteTx wraps sql.Tx to implement service.Tx. Every Storage method it
// exposes runs against the transaction, so a Rollback undoes all of them.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return markRetryable(err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Account operations within a transaction.

func (t *sqliteTx) CreateAccount(ctx context.Context, account *model.Account) error {
	return createAccountIn(ctx, t.tx, account)
}

func (t *sqliteTx) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return getAccountIn(ctx, t.tx, id)
}

func (t *sqliteTx) GetAccounts(ctx context.Context) ([]model.Account, error) {
	return getAccountsIn(ctx, t.tx)
}

func (t *sqliteTx) UpdateAccount(ctx context.Context, account *model.Account) error {
	return updateAccountIn(ctx, t.tx, account)
}

func (t *sqliteTx) DeleteAccount(ctx context.Context, id string) error {
	return deleteAccountIn(ctx, t.tx, id)
}

func (t *sqliteTx) AdjustAccountBalance(ctx context.Context, accountID string, delta model.Money) error {
	return adjustAccountBalanceIn(ctx, t.tx, accountID, delta)
}

// Category operations within a transaction.

func (t *sqliteTx) GetCategories(ctx context.Context) ([]model.Category, error) {
	return getCategoriesIn(ctx, t.tx)
}

func (t *sqliteTx) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return getCategoryIn(ctx, t.tx, id)
}

func (t *sqliteTx) CreateCategory(ctx context.Context, category *model.Category) error {
	return createCategoryIn(ctx, t.tx, category)
}

func (t *sqliteTx) UpdateCategory(ctx context.Context, category *model.Category) error {
	return updateCategoryIn(ctx, t.tx, category)
}

func (t *sqliteTx) DeleteCategory(ctx context.Context, id string) error {
	return deleteCategoryIn(ctx, t.tx, id)
}

func (t *sqliteTx) SeedDefaultCategories(ctx context.Context) error {
	return seedDefaultCategoriesIn(ctx, t.tx)
}

// Rule operations within a transaction.

func (t *sqliteTx) GetRules(ctx context.Context) ([]model.Rule, error) {
	return getRulesIn(ctx, t.tx)
}

func (t *sqliteTx) CreateRule(ctx context.Context, rule *model.Rule) error {
	return createRuleIn(ctx, t.tx, rule)
}

func (t *sqliteTx) UpdateRule(ctx context.Context, rule *model.Rule) error {
	return updateRuleIn(ctx, t.tx, rule)
}

func (t *sqliteTx) DeleteRule(ctx context.Context, id string) error {
	return deleteRuleIn(ctx, t.tx, id)
}

// Entry operations within a transaction.

func (t *sqliteTx) SaveEntry(ctx context.Context, entry *model.Entry) error {
	return saveEntryIn(ctx, t.tx, entry)
}

func (t *sqliteTx) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	return getEntryIn(ctx, t.tx, id)
}

func (t *sqliteTx) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	return updateEntryIn(ctx, t.tx, entry)
}

func (t *sqliteTx) DeleteEntry(ctx context.Context, id string) error {
	return deleteEntryIn(ctx, t.tx, id)
}

func (t *sqliteTx) GetEntries(ctx context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	return getEntriesIn(ctx, t.tx, filter)
}

func (t *sqliteTx) SumAccountEntries(ctx context.Context, accountID string) (model.Money, error) {
	return sumAccountEntriesIn(ctx, t.tx, accountID)
}

// Budget operations within a transaction.

func (t *sqliteTx) SetBudget(ctx context.Context, budget *model.Budget) error {
	return setBudgetIn(ctx, t.tx, budget)
}

func (t *sqliteTx) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	return getBudgetsIn(ctx, t.tx)
}

func (t *sqliteTx) DeleteBudget(ctx context.Context, categoryID string) error {
	return deleteBudgetIn(ctx, t.tx, categoryID)
}

// Goal operations within a transaction.

func (t *sqliteTx) CreateGoal(ctx context.Context, goal *model.SavingsGoal) error {
	return createGoalIn(ctx, t.tx, goal)
}

func (t *sqliteTx) GetGoal(ctx context.Context, id string) (*model.SavingsGoal, error) {
	return getGoalIn(ctx, t.tx, id)
}

func (t *sqliteTx) GetGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	return getGoalsIn(ctx, t.tx)
}

func (t *sqliteTx) DeleteGoal(ctx context.Context, id string) error {
	return deleteGoalIn(ctx, t.tx, id)
}

func (t *sqliteTx) AdjustGoalSaved(ctx context.Context, goalID string, delta model.Money) error {
	return adjustGoalSavedIn(ctx, t.tx, goalID, delta)
}

// Recurring operations within a transaction.

func (t *sqliteTx) CreateRecurring(ctx context.Context, recurring *model.Recurring) error {
	return createRecurringIn(ctx, t.tx, recurring)
}

func (t *sqliteTx) GetRecurring(ctx context.Context, id string) (*model.Recurring, error) {
	return getRecurringIn(ctx, t.tx, id)
}

func (t *sqliteTx) GetRecurrings(ctx context.Context) ([]model.Recurring, error) {
	return getRecurringsIn(ctx, t.tx)
}

func (t *sqliteTx) DeleteRecurring(ctx context.Context, id string) error {
	return deleteRecurringIn(ctx, t.tx, id)
}

func (t *sqliteTx) MarkRecurringApplied(ctx context.Context, id string, appliedAt time.Time) error {
	return markRecurringAppliedIn(ctx, t.tx, id, appliedAt)
}

// Aggregate queries within a transaction.

func (t *sqliteTx) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*service.MonthlySummary, error) {
	return getMonthlySummaryIn(ctx, t.tx, year, month)
}

func (t *sqliteTx) GetSpendForDay(ctx context.Context, day time.Time) (model.Money, error) {
	return getSpendForDayIn(ctx, t.tx, day)
}

func (t *sqliteTx) GetCategorySpend(ctx context.Context, start, end time.Time) ([]service.CategorySpend, error) {
	return getCategorySpendIn(ctx, t.tx, start, end)
}

func (t *sqliteTx) GetRecentEntries(ctx context.Context, limit int) ([]service.EntryDisplay, error) {
	return getRecentEntriesIn(ctx, t.tx, limit)
}

// Nested transactions are not supported; the existing scope is reused so
// helper code can run unchanged inside or outside a transaction.
func (t *sqliteTx) BeginTx(_ context.Context) (service.Tx, error) {
	return t, nil
}

func (t *sqliteTx) Migrate(_ context.Context) error {
	return fmt.Errorf("migrate cannot run inside a transaction")
}

func (t *sqliteTx) Close() error {
	return nil
}
