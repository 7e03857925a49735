package model

import "time"

// SavingsGoal tracks progress toward a savings target. SavedAmount is
// mutated only via the reconciler's Contribute/Withdraw operations and never
// goes below zero.
type SavingsGoal struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ID           string
	Name         string
	Icon         string
	Color        string
	TargetAmount Money
	SavedAmount  Money
}

// Completed reports whether the goal has reached its target.
func (g SavingsGoal) Completed() bool {
	return g.SavedAmount >= g.TargetAmount
}
