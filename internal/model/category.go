// Package model defines the core data structures for the rupeeledger engine.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType indicates whether a category tracks spending or income.
type CategoryType string

const (
	// CategoryTypeExpense represents categories for expense entries.
	CategoryTypeExpense CategoryType = "EXPENSE"
	// CategoryTypeIncome represents categories for income entries.
	CategoryTypeIncome CategoryType = "INCOME"
)

// Names of the seeded default categories.
const (
	DefaultCategoryFood          = "Food & Dining"
	DefaultCategoryGroceries     = "Groceries"
	DefaultCategoryShopping      = "Shopping"
	DefaultCategoryTransport     = "Transportation"
	DefaultCategoryBills         = "Bills & Utilities"
	DefaultCategoryEntertainment = "Entertainment"
	DefaultCategoryHealth        = "Health"
	DefaultCategorySalary        = "Salary"
	DefaultCategoryOther         = "Other"
)

// DefaultCategoryID derives the stable ID a seeded default category gets.
// Deterministic so seeding is idempotent and classifiers can reference the
// defaults without a lookup.
func DefaultCategoryID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("category:"+name)).String()
}

// Category represents a spending or income category. Default categories are
// seeded at first run and cannot be deleted.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Color     string
	Icon      string
	Type      CategoryType
	IsDefault bool
}
