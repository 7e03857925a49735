// Package report provides read-only derived projections over the ledger:
// monthly totals, today's spend, category breakdowns, budget alert status
// and recurring schedules coming due. Everything is recomputed per query
// from the entry set, never cached, so views are always consistent with the
// reconciler's state.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/model"
	"github.com/rupeeledger/rupeeledger/internal/service"
)

// Views exposes the aggregation queries consumed by dashboards, alerts and
// exporters. All methods are read-only.
type Views struct {
	store service.Storage
}

// NewViews creates the aggregation views over the given store.
func NewViews(store service.Storage) *Views {
	return &Views{store: store}
}

// MonthlySummary returns income and expense totals for one calendar month.
func (v *Views) MonthlySummary(ctx context.Context, year int, month time.Month) (*service.MonthlySummary, error) {
	return v.store.GetMonthlySummary(ctx, year, month)
}

// TodaySpend returns total expenses dated today.
func (v *Views) TodaySpend(ctx context.Context, now time.Time) (model.Money, error) {
	return v.store.GetSpendForDay(ctx, now)
}

// CategoryBreakdown returns per-category expense totals for a date range.
// Entries whose category was deleted appear under "Uncategorized".
func (v *Views) CategoryBreakdown(ctx context.Context, start, end time.Time) ([]service.CategorySpend, error) {
	return v.store.GetCategorySpend(ctx, start, end)
}

// RecentEntries returns the N most recent entries with display labels.
func (v *Views) RecentEntries(ctx context.Context, limit int) ([]service.EntryDisplay, error) {
	return v.store.GetRecentEntries(ctx, limit)
}

// BudgetStatus is a budget joined with its current-month spend.
type BudgetStatus struct {
	CategoryID   string
	CategoryName string
	Limit        model.Money
	Spent        model.Money
	Percentage   float64
	Threshold    float64
}

// OverAlert reports whether spending has crossed the budget's alert
// threshold.
func (b BudgetStatus) OverAlert() bool {
	return b.Percentage >= b.Threshold
}

// BudgetStatuses computes current-month spend against every configured
// budget. Spent and percentage are derived at read time from the entry set.
func (v *Views) BudgetStatuses(ctx context.Context, now time.Time) ([]BudgetStatus, error) {
	budgets, err := v.store.GetBudgets(ctx)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	spend, err := v.store.GetCategorySpend(ctx, start, end)
	if err != nil {
		return nil, err
	}

	spentByCategory := make(map[string]model.Money, len(spend))
	nameByCategory := make(map[string]string, len(spend))
	for _, cs := range spend {
		spentByCategory[cs.CategoryID] = cs.Spent
		nameByCategory[cs.CategoryID] = cs.CategoryName
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		status := BudgetStatus{
			CategoryID:   budget.CategoryID,
			CategoryName: nameByCategory[budget.CategoryID],
			Limit:        budget.Amount,
			Spent:        spentByCategory[budget.CategoryID],
			Threshold:    budget.AlertThreshold,
		}
		if status.CategoryName == "" {
			if cat, err := v.store.GetCategory(ctx, budget.CategoryID); err == nil {
				status.CategoryName = cat.Name
			}
		}
		if budget.Amount > 0 {
			status.Percentage = float64(status.Spent) / float64(budget.Amount)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// OverAlertBudgets returns only the budgets whose current-month spend has
// crossed their alert threshold. This is the query the notification
// collaborator consumes; delivery is out of scope here.
func (v *Views) OverAlertBudgets(ctx context.Context, now time.Time) ([]BudgetStatus, error) {
	statuses, err := v.BudgetStatuses(ctx, now)
	if err != nil {
		return nil, err
	}

	var over []BudgetStatus
	for _, status := range statuses {
		if status.OverAlert() {
			over = append(over, status)
		}
	}
	return over, nil
}

// DueRecurring is a recurring schedule with its next due date.
type DueRecurring struct {
	Recurring model.Recurring
	Due       time.Time
}

// RecurringDueSoon returns schedules whose next due date falls within the
// given number of days from now, soonest first.
func (v *Views) RecurringDueSoon(ctx context.Context, now time.Time, withinDays int) ([]DueRecurring, error) {
	schedules, err := v.store.GetRecurrings(ctx)
	if err != nil {
		return nil, err
	}

	horizon := now.AddDate(0, 0, withinDays)
	var due []DueRecurring
	for _, schedule := range schedules {
		next := schedule.NextDue()
		if !next.After(horizon) {
			due = append(due, DueRecurring{Recurring: schedule, Due: next})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].Due.Before(due[j].Due)
	})
	return due, nil
}
