package model

import "time"

// EntryType indicates the direction of a money movement.
type EntryType string

const (
	// EntryTypeExpense is money leaving an account.
	EntryTypeExpense EntryType = "EXPENSE"
	// EntryTypeIncome is money entering an account.
	EntryTypeIncome EntryType = "INCOME"
)

// Entry is a single recorded money movement. Entries are mutated only through
// the reconciler's Create/Update/Delete operations so account balances stay
// consistent with the entry set.
//
// CategoryID and AccountID are weak references: the referenced entity may be
// deleted later, and readers must degrade to "Uncategorized"/"Unknown".
// An entry with no AccountID affects no balance. RecurringID, GoalID and
// DebtID associate the entry with a schedule, a goal contribution or a debt
// settlement; the balance effect is applied exactly once regardless of how
// many links are set.
type Entry struct {
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	CategoryID  string
	AccountID   string
	Note        string
	RecurringID string
	GoalID      string
	DebtID      string
	Type        EntryType
	Amount      Money
}

// SignedEffect returns the balance delta the entry contributes to its
// account: +Amount for income, -Amount for expense.
func (e Entry) SignedEffect() Money {
	if e.Type == EntryTypeIncome {
		return e.Amount
	}
	return -e.Amount
}
