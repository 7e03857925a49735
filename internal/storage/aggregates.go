package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// Placeholder labels for orphaned references. Aggregation queries degrade to
// these rather than failing when a category or account was deleted.
const (
	UncategorizedLabel  = "Uncategorized"
	UnknownAccountLabel = "Unknown"
)

// GetMonthlySummary returns income and expense totals for one calendar month.
func (s *SQLiteStorage) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*service.MonthlySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getMonthlySummaryIn(ctx, s.db, year, month)
}

// GetSpendForDay returns total expenses dated within the given calendar day.
func (s *SQLiteStorage) GetSpendForDay(ctx context.Context, day time.Time) (model.Money, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return getSpendForDayIn(ctx, s.db, day)
}

// GetCategorySpend returns per-category expense totals for a date range.
func (s *SQLiteStorage) GetCategorySpend(ctx context.Context, start, end time.Time) ([]service.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategorySpendIn(ctx, s.db, start, end)
}

// GetRecentEntries returns the N most recent entries joined with category and
// account display info.
func (s *SQLiteStorage) GetRecentEntries(ctx context.Context, limit int) ([]service.EntryDisplay, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRecentEntriesIn(ctx, s.db, limit)
}

func getMonthlySummaryIn(ctx context.Context, q querier, year int, month time.Month) (*service.MonthlySummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var income, expense int64
	err := q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0)
		FROM entries WHERE date >= ? AND date < ?`,
		start, end).Scan(&income, &expense)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}

	return &service.MonthlySummary{
		Year:    year,
		Month:   month,
		Income:  model.Money(income),
		Expense: model.Money(expense),
	}, nil
}

func getSpendForDayIn(ctx context.Context, q querier, day time.Time) (model.Money, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var spent int64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries WHERE type = 'EXPENSE' AND date >= ? AND date < ?`,
		start, end).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("failed to query day spend: %w", err)
	}

	return model.Money(spent), nil
}

func getCategorySpendIn(ctx context.Context, q querier, start, end time.Time) ([]service.CategorySpend, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	// LEFT JOIN so entries whose category was deleted (or never set) still
	// show up, grouped under the placeholder label.
	rows, err := q.QueryContext(ctx, `
		SELECT COALESCE(e.category_id, ''), COALESCE(c.name, ?),
			SUM(e.amount), COUNT(*)
		FROM entries e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.type = 'EXPENSE' AND e.date >= ? AND e.date < ?
		GROUP BY e.category_id
		ORDER BY SUM(e.amount) DESC`,
		UncategorizedLabel, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query category spend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []service.CategorySpend
	for rows.Next() {
		var cs service.CategorySpend
		var spent int64
		if err := rows.Scan(&cs.CategoryID, &cs.CategoryName, &spent, &cs.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		cs.Spent = model.Money(spent)
		results = append(results, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category spend: %w", err)
	}

	return results, nil
}

func getRecentEntriesIn(ctx context.Context, q querier, limit int) ([]service.EntryDisplay, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := q.QueryContext(ctx, `
		SELECT e.id, e.amount, e.type, COALESCE(e.category_id, ''),
			COALESCE(e.account_id, ''), e.date, e.note,
			e.recurring_id, e.goal_id, e.debt_id, e.created_at, e.updated_at,
			COALESCE(c.name, ?), COALESCE(a.name, ?)
		FROM entries e
		LEFT JOIN categories c ON c.id = e.category_id
		LEFT JOIN accounts a ON a.id = e.account_id
		ORDER BY e.date DESC, e.created_at DESC
		LIMIT ?`,
		UncategorizedLabel, UnknownAccountLabel, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []service.EntryDisplay
	for rows.Next() {
		var d service.EntryDisplay
		var amount int64
		if err := rows.Scan(&d.Entry.ID, &amount, &d.Entry.Type,
			&d.Entry.CategoryID, &d.Entry.AccountID, &d.Entry.Date, &d.Entry.Note,
			&d.Entry.RecurringID, &d.Entry.GoalID, &d.Entry.DebtID,
			&d.Entry.CreatedAt, &d.Entry.UpdatedAt,
			&d.CategoryName, &d.AccountName); err != nil {
			return nil, fmt.Errorf("failed to scan recent entry: %w", err)
		}
		d.Entry.Amount = model.Money(amount)
		// An entry with no category at all still reads "Uncategorized";
		// an entry with no account reads "Unknown" only if one was assigned
		// and later deleted.
		if d.Entry.AccountID == "" {
			d.AccountName = ""
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent entries: %w", err)
	}

	return results, nil
}
