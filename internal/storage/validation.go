// Package storage provides the data persistence layer for the rupeeledger engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidAccount   = errors.New("invalid account")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidRule      = errors.New("invalid rule")
	ErrInvalidEntry     = errors.New("invalid entry")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidGoal      = errors.New("invalid goal")
	ErrInvalidRecurring = errors.New("invalid recurring schedule")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	switch account.Type {
	case model.AccountTypeCash, model.AccountTypeBank, model.AccountTypeUPI, model.AccountTypeCreditCard:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, account.Type)
	}
	return nil
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if category.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	switch category.Type {
	case model.CategoryTypeExpense, model.CategoryTypeIncome:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, category.Type)
	}
	return nil
}

func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if rule.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.MatchText) == "" {
		return fmt.Errorf("%w: missing match text", ErrInvalidRule)
	}
	if rule.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidRule)
	}
	return nil
}

func validateEntry(entry *model.Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidEntry)
	}
	if entry.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidEntry)
	}
	if entry.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	}
	switch entry.Type {
	case model.EntryTypeExpense, model.EntryTypeIncome:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, entry.Type)
	}
	return nil
}

func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidBudget)
	}
	if budget.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBudget)
	}
	if budget.AlertThreshold < 0 || budget.AlertThreshold > 1 {
		return fmt.Errorf("%w: alert threshold must be between 0 and 1", ErrInvalidBudget)
	}
	return nil
}

func validateGoal(goal *model.SavingsGoal) error {
	if goal == nil {
		return fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if goal.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidGoal)
	}
	if strings.TrimSpace(goal.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidGoal)
	}
	if goal.TargetAmount <= 0 {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidGoal)
	}
	if goal.SavedAmount < 0 {
		return fmt.Errorf("%w: saved amount cannot be negative", ErrInvalidGoal)
	}
	return nil
}

func validateRecurring(recurring *model.Recurring) error {
	if recurring == nil {
		return fmt.Errorf("%w: recurring", ErrNilParameter)
	}
	if recurring.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecurring)
	}
	if strings.TrimSpace(recurring.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRecurring)
	}
	if recurring.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRecurring)
	}
	if recurring.DayOfMonth < 1 || recurring.DayOfMonth > 28 {
		return fmt.Errorf("%w: day of month must be between 1 and 28", ErrInvalidRecurring)
	}
	switch recurring.Type {
	case model.EntryTypeExpense, model.EntryTypeIncome:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecurring, recurring.Type)
	}
	return nil
}
