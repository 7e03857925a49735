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
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// SaveEntry persists a new ledger entry. Balance effects are the reconciler's
// job; this writes only the entry row.
func (s *SQLiteStorage) SaveEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return saveEntryIn(ctx, s.db, entry)
}

// GetEntry returns an entry by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getEntryIn(ctx, s.db, id)
}

// UpdateEntry rewrites an entry row. CreatedAt is immutable.
func (s *SQLiteStorage) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateEntryIn(ctx, s.db, entry)
}

// DeleteEntry removes an entry row. Missing rows are a no-op.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteEntryIn(ctx, s.db, id)
}

// GetEntries returns entries matching the filter, newest first.
func (s *SQLiteStorage) GetEntries(ctx context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getEntriesIn(ctx, s.db, filter)
}

// SumAccountEntries recomputes an account balance from its entries.
func (s *SQLiteStorage) SumAccountEntries(ctx context.Context, accountID string) (model.Money, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return 0, err
	}
	return sumAccountEntriesIn(ctx, s.db, accountID)
}

const entryColumns = `id, amount, type, category_id, account_id, date, note,
	recurring_id, goal_id, debt_id, created_at, updated_at`

func scanEntry(scan func(...any) error) (*model.Entry, error) {
	var e model.Entry
	var amount int64
	var categoryID, accountID sql.NullString
	if err := scan(&e.ID, &amount, &e.Type, &categoryID, &accountID, &e.Date,
		&e.Note, &e.RecurringID, &e.GoalID, &e.DebtID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Amount = model.Money(amount)
	e.CategoryID = categoryID.String
	e.AccountID = accountID.String
	return &e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func saveEntryIn(ctx context.Context, q querier, entry *model.Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO entries (id, amount, type, category_id, account_id, date, note,
			recurring_id, goal_id, debt_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, int64(entry.Amount), entry.Type,
		nullable(entry.CategoryID), nullable(entry.AccountID),
		entry.Date.UTC(), entry.Note,
		entry.RecurringID, entry.GoalID, entry.DebtID, now, now)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	entry.CreatedAt = now
	entry.UpdatedAt = now
	slog.Debug("saved entry", "id", entry.ID, "type", entry.Type, "amount", entry.Amount)
	return nil
}

func getEntryIn(ctx context.Context, q querier, id string) (*model.Entry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)

	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: entry %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

func updateEntryIn(ctx context.Context, q querier, entry *model.Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE entries SET amount = ?, type = ?, category_id = ?, account_id = ?,
			date = ?, note = ?, recurring_id = ?, goal_id = ?, debt_id = ?,
			updated_at = ?
		WHERE id = ?`,
		int64(entry.Amount), entry.Type,
		nullable(entry.CategoryID), nullable(entry.AccountID),
		entry.Date.UTC(), entry.Note,
		entry.RecurringID, entry.GoalID, entry.DebtID,
		time.Now().UTC(), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: entry %s", common.ErrNotFound, entry.ID)
	}
	return nil
}

func deleteEntryIn(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func getEntriesIn(ctx context.Context, q querier, filter service.EntryFilter) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE 1=1`
	var args []any

	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, ErrInvalidDateRange
	}
	if filter.Start != nil {
		query += ` AND date >= ?`
		args = append(args, filter.Start.UTC())
	}
	if filter.End != nil {
		query += ` AND date < ?`
		args = append(args, filter.End.UTC())
	}
	if filter.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

func sumAccountEntriesIn(ctx context.Context, q querier, accountID string) (model.Money, error) {
	var total int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
		FROM entries WHERE account_id = ?`, accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum account entries: %w", err)
	}
	return model.Money(total), nil
}
