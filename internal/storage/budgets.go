package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

// SetBudget creates or replaces the budget for a category.
func (s *SQLiteStorage) SetBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setBudgetIn(ctx, s.db, budget)
}

// GetBudgets returns every configured budget.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getBudgetsIn(ctx, s.db)
}

// DeleteBudget removes the budget for a category. Missing budgets are a no-op.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}
	return deleteBudgetIn(ctx, s.db, categoryID)
}

func setBudgetIn(ctx context.Context, q querier, budget *model.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}

	// Budgets must point at a live category.
	if _, err := getCategoryIn(ctx, q, budget.CategoryID); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount, alert_threshold)
		VALUES (?, ?, ?)
		ON CONFLICT(category_id) DO UPDATE SET
			amount = excluded.amount,
			alert_threshold = excluded.alert_threshold`,
		budget.CategoryID, int64(budget.Amount), budget.AlertThreshold)
	if err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}

	slog.Info("set budget", "category_id", budget.CategoryID, "amount", budget.Amount)
	return nil
}

func getBudgetsIn(ctx context.Context, q querier) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT category_id, amount, alert_threshold FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var amount int64
		if err := rows.Scan(&b.CategoryID, &amount, &b.AlertThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.Amount = model.Money(amount)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

func deleteBudgetIn(ctx context.Context, q querier, categoryID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
