package model

import "time"

// Recurring is a schedule that produces one ledger entry per month on a
// fixed day. LastApplied records the due date most recently turned into an
// entry so each period is applied at most once.
type Recurring struct {
	CreatedAt   time.Time
	LastApplied *time.Time
	ID          string
	Name        string
	CategoryID  string
	AccountID   string
	Type        EntryType
	Amount      Money
	DayOfMonth  int // 1-28
}

// NextDue returns the first due date strictly after LastApplied (or the
// schedule's first occurrence on or after its creation when never applied).
func (r Recurring) NextDue() time.Time {
	var from time.Time
	if r.LastApplied != nil {
		from = r.LastApplied.AddDate(0, 1, 0)
		return time.Date(from.Year(), from.Month(), r.DayOfMonth, 0, 0, 0, 0, time.UTC)
	}
	from = r.CreatedAt
	due := time.Date(from.Year(), from.Month(), r.DayOfMonth, 0, 0, 0, 0, time.UTC)
	if due.Before(time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}
