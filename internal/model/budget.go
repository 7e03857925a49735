package model

// Budget sets a per-category spending limit for a calendar month.
// Spent amounts and percentages are derived from ledger entries at read time,
// never stored.
type Budget struct {
	CategoryID     string
	Amount         Money
	AlertThreshold float64 // fraction of Amount, 0-1
}
