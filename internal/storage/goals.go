package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

// CreateGoal persists a new savings goal.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *model.SavingsGoal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createGoalIn(ctx, s.db, goal)
}

// GetGoal returns a savings goal by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetGoal(ctx context.Context, id string) (*model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getGoalIn(ctx, s.db, id)
}

// GetGoals returns all savings goals ordered by name.
func (s *SQLiteStorage) GetGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getGoalsIn(ctx, s.db)
}

// DeleteGoal removes a savings goal. Missing goals are a no-op.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteGoalIn(ctx, s.db, id)
}

// AdjustGoalSaved applies a signed delta to SavedAmount as a single SQL
// increment. The schema's CHECK constraint backstops the floor-at-zero
// invariant; callers clamp withdrawals before calling.
func (s *SQLiteStorage) AdjustGoalSaved(ctx context.Context, goalID string, delta model.Money) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(goalID, "goalID"); err != nil {
		return err
	}
	return adjustGoalSavedIn(ctx, s.db, goalID, delta)
}

func createGoalIn(ctx context.Context, q querier, goal *model.SavingsGoal) error {
	if err := validateGoal(goal); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO savings_goals (id, name, target_amount, saved_amount, icon, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, int64(goal.TargetAmount), int64(goal.SavedAmount),
		goal.Icon, goal.Color, now, now)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	goal.CreatedAt = now
	goal.UpdatedAt = now
	slog.Info("created goal", "id", goal.ID, "name", goal.Name, "target", goal.TargetAmount)
	return nil
}

func getGoalIn(ctx context.Context, q querier, id string) (*model.SavingsGoal, error) {
	var goal model.SavingsGoal
	var target, saved int64
	err := q.QueryRowContext(ctx, `
		SELECT id, name, target_amount, saved_amount, icon, color, created_at, updated_at
		FROM savings_goals WHERE id = ?`, id).Scan(
		&goal.ID, &goal.Name, &target, &saved, &goal.Icon, &goal.Color,
		&goal.CreatedAt, &goal.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}

	goal.TargetAmount = model.Money(target)
	goal.SavedAmount = model.Money(saved)
	return &goal, nil
}

func getGoalsIn(ctx context.Context, q querier) ([]model.SavingsGoal, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, target_amount, saved_amount, icon, color, created_at, updated_at
		FROM savings_goals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.SavingsGoal
	for rows.Next() {
		var goal model.SavingsGoal
		var target, saved int64
		if err := rows.Scan(&goal.ID, &goal.Name, &target, &saved, &goal.Icon,
			&goal.Color, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goal.TargetAmount = model.Money(target)
		goal.SavedAmount = model.Money(saved)
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

func deleteGoalIn(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func adjustGoalSavedIn(ctx context.Context, q querier, goalID string, delta model.Money) error {
	result, err := q.ExecContext(ctx, `
		UPDATE savings_goals SET saved_amount = saved_amount + ?, updated_at = ?
		WHERE id = ?`,
		int64(delta), time.Now().UTC(), goalID)
	if err != nil {
		return fmt.Errorf("failed to adjust goal saved amount: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjustment result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: goal %s", common.ErrNotFound, goalID)
	}

	slog.Debug("adjusted goal saved amount", "goal_id", goalID, "delta", delta)
	return nil
}
