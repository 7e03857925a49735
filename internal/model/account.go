package model

import "time"

// AccountType classifies where the money lives.
type AccountType string

const (
	// AccountTypeCash is physical cash on hand.
	AccountTypeCash AccountType = "CASH"
	// AccountTypeBank is a bank account.
	AccountTypeBank AccountType = "BANK"
	// AccountTypeUPI is a UPI wallet.
	AccountTypeUPI AccountType = "UPI"
	// AccountTypeCreditCard is a credit card.
	AccountTypeCreditCard AccountType = "CREDIT_CARD"
)

// Account represents a money source or destination. Balance always equals
// the sum of signed effects of the ledger entries referencing the account;
// it is maintained incrementally by the reconciler.
type Account struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	Type      AccountType
	Balance   Money
}
