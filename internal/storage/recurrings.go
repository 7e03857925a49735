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

// CreateRecurring persists a new recurring schedule.
func (s *SQLiteStorage) CreateRecurring(ctx context.Context, recurring *model.Recurring) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createRecurringIn(ctx, s.db, recurring)
}

// GetRecurring returns a schedule by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetRecurring(ctx context.Context, id string) (*model.Recurring, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getRecurringIn(ctx, s.db, id)
}

// GetRecurrings returns all recurring schedules ordered by name.
func (s *SQLiteStorage) GetRecurrings(ctx context.Context) ([]model.Recurring, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRecurringsIn(ctx, s.db)
}

// DeleteRecurring removes a schedule. Missing schedules are a no-op;
// entries already created from it keep their recurringID.
func (s *SQLiteStorage) DeleteRecurring(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteRecurringIn(ctx, s.db, id)
}

// MarkRecurringApplied records the due date most recently turned into an entry.
func (s *SQLiteStorage) MarkRecurringApplied(ctx context.Context, id string, appliedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return markRecurringAppliedIn(ctx, s.db, id, appliedAt)
}

func createRecurringIn(ctx context.Context, q querier, recurring *model.Recurring) error {
	if err := validateRecurring(recurring); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO recurrings (id, name, amount, type, category_id, account_id, day_of_month, last_applied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recurring.ID, recurring.Name, int64(recurring.Amount), recurring.Type,
		nullable(recurring.CategoryID), nullable(recurring.AccountID),
		recurring.DayOfMonth, recurring.LastApplied, now)
	if err != nil {
		return fmt.Errorf("failed to create recurring schedule: %w", err)
	}

	recurring.CreatedAt = now
	slog.Info("created recurring schedule", "id", recurring.ID, "name", recurring.Name, "day", recurring.DayOfMonth)
	return nil
}

func scanRecurring(scan func(...any) error) (*model.Recurring, error) {
	var r model.Recurring
	var amount int64
	var categoryID, accountID sql.NullString
	var lastApplied sql.NullTime
	if err := scan(&r.ID, &r.Name, &amount, &r.Type, &categoryID, &accountID,
		&r.DayOfMonth, &lastApplied, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Amount = model.Money(amount)
	r.CategoryID = categoryID.String
	r.AccountID = accountID.String
	if lastApplied.Valid {
		t := lastApplied.Time
		r.LastApplied = &t
	}
	return &r, nil
}

func getRecurringIn(ctx context.Context, q querier, id string) (*model.Recurring, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, amount, type, category_id, account_id, day_of_month, last_applied, created_at
		FROM recurrings WHERE id = ?`, id)

	recurring, err := scanRecurring(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: recurring %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring schedule: %w", err)
	}
	return recurring, nil
}

func getRecurringsIn(ctx context.Context, q querier) ([]model.Recurring, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, amount, type, category_id, account_id, day_of_month, last_applied, created_at
		FROM recurrings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recurrings []model.Recurring
	for rows.Next() {
		recurring, err := scanRecurring(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring schedule: %w", err)
		}
		recurrings = append(recurrings, *recurring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring schedules: %w", err)
	}

	return recurrings, nil
}

func deleteRecurringIn(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM recurrings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recurring schedule: %w", err)
	}
	return nil
}

func markRecurringAppliedIn(ctx context.Context, q querier, id string, appliedAt time.Time) error {
	result, err := q.ExecContext(ctx, `
		UPDATE recurrings SET last_applied = ? WHERE id = ?`,
		appliedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark recurring applied: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: recurring %s", common.ErrNotFound, id)
	}
	return nil
}
