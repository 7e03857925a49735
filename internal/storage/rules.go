package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rupeeledger/rupeeledger/internal/common"
	"github.com/rupeeledger/rupeeledger/internal/model"
)

// GetRules returns all categorization rules in evaluation order: ascending
// priority, oldest first on ties.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRulesIn(ctx, s.db)
}

// CreateRule persists a new categorization rule.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createRuleIn(ctx, s.db, rule)
}

// UpdateRule updates a rule's match text, category and priority.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateRuleIn(ctx, s.db, rule)
}

// DeleteRule removes a rule. Deleting a missing rule is a no-op.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteRuleIn(ctx, s.db, id)
}

func getRulesIn(ctx context.Context, q querier) ([]model.Rule, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, match_text, category_id, priority, created_at
		FROM rules ORDER BY priority, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		if err := rows.Scan(&rule.ID, &rule.MatchText, &rule.CategoryID,
			&rule.Priority, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

func createRuleIn(ctx context.Context, q querier, rule *model.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	// Rules must point at a live category.
	if _, err := getCategoryIn(ctx, q, rule.CategoryID); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO rules (id, match_text, category_id, priority, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rule.ID, rule.MatchText, rule.CategoryID, rule.Priority, now)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	rule.CreatedAt = now
	slog.Info("created rule", "id", rule.ID, "match_text", rule.MatchText, "category_id", rule.CategoryID)
	return nil
}

func updateRuleIn(ctx context.Context, q querier, rule *model.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if _, err := getCategoryIn(ctx, q, rule.CategoryID); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE rules SET match_text = ?, category_id = ?, priority = ?
		WHERE id = ?`,
		rule.MatchText, rule.CategoryID, rule.Priority, rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %s", common.ErrNotFound, rule.ID)
	}
	return nil
}

func deleteRuleIn(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}
