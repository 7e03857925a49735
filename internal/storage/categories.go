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

// defaultCategories is the fixed set seeded at first run. IDs are derived
// deterministically from the name so repeated seeding is idempotent.
var defaultCategories = []model.Category{
	{Name: model.DefaultCategoryFood, Type: model.CategoryTypeExpense, Color: "#E4572E", Icon: "restaurant"},
	{Name: model.DefaultCategoryGroceries, Type: model.CategoryTypeExpense, Color: "#76B041", Icon: "cart"},
	{Name: model.DefaultCategoryShopping, Type: model.CategoryTypeExpense, Color: "#F3A712", Icon: "bag"},
	{Name: model.DefaultCategoryTransport, Type: model.CategoryTypeExpense, Color: "#17BEBB", Icon: "car"},
	{Name: model.DefaultCategoryBills, Type: model.CategoryTypeExpense, Color: "#2E86AB", Icon: "receipt"},
	{Name: model.DefaultCategoryEntertainment, Type: model.CategoryTypeExpense, Color: "#A846A0", Icon: "film"},
	{Name: model.DefaultCategoryHealth, Type: model.CategoryTypeExpense, Color: "#D7263D", Icon: "heart"},
	{Name: model.DefaultCategorySalary, Type: model.CategoryTypeIncome, Color: "#1B998B", Icon: "wallet"},
	{Name: model.DefaultCategoryOther, Type: model.CategoryTypeExpense, Color: "#8D99AE", Icon: "dots"},
}

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoriesIn(ctx, s.db)
}

// GetCategory returns a category by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getCategoryIn(ctx, s.db, id)
}

// CreateCategory persists a new user-defined category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return createCategoryIn(ctx, s.db, category)
}

// UpdateCategory updates a category's display fields.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategoryIn(ctx, s.db, category)
}

// DeleteCategory removes a non-default category. Deleting a default category
// is a validation error; historical entries keep their categoryID and degrade
// to "Uncategorized" in read views.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteCategoryIn(ctx, s.db, id)
}

// SeedDefaultCategories inserts the default category set if missing.
// Idempotent and safe to run on every startup.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return seedDefaultCategoriesIn(ctx, s.db)
}

func getCategoriesIn(ctx context.Context, q querier) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, type, color, icon, is_default, created_at
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Color, &cat.Icon,
			&cat.IsDefault, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func getCategoryIn(ctx context.Context, q querier, id string) (*model.Category, error) {
	var cat model.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, name, type, color, icon, is_default, created_at
		FROM categories WHERE id = ?`, id).Scan(
		&cat.ID, &cat.Name, &cat.Type, &cat.Color, &cat.Icon,
		&cat.IsDefault, &cat.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

func createCategoryIn(ctx context.Context, q querier, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, color, icon, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Type, category.Color, category.Icon,
		category.IsDefault, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	category.CreatedAt = now
	slog.Info("created category", "id", category.ID, "name", category.Name)
	return nil
}

func updateCategoryIn(ctx context.Context, q querier, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ?, type = ?, color = ?, icon = ?
		WHERE id = ?`,
		category.Name, category.Type, category.Color, category.Icon, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, category.ID)
	}
	return nil
}

func deleteCategoryIn(ctx context.Context, q querier, id string) error {
	cat, err := getCategoryIn(ctx, q, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil // idempotent delete
		}
		return err
	}
	if cat.IsDefault {
		return fmt.Errorf("%w: default category %q cannot be deleted", common.ErrValidation, cat.Name)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	slog.Info("deleted category", "id", id, "name", cat.Name)
	return nil
}

func seedDefaultCategoriesIn(ctx context.Context, q querier) error {
	for _, cat := range defaultCategories {
		_, err := q.ExecContext(ctx, `
			INSERT INTO categories (id, name, type, color, icon, is_default, created_at)
			VALUES (?, ?, ?, ?, ?, 1, ?)
			ON CONFLICT(name) DO NOTHING`,
			model.DefaultCategoryID(cat.Name), cat.Name, cat.Type, cat.Color, cat.Icon,
			time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
	}
	return nil
}
