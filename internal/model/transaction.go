package model

import "time"

// TransactionType indicates the direction of money movement.
type TransactionType string

const (
	// TransactionTypeIncome represents money coming in.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense represents money going out.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeTransfer represents movement between accounts.
	// Transfers are stored as paired rows with signed amounts.
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a single financial transaction recorded by a user.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	Type        TransactionType
	Category    string
	Description string
	Account     string
	ID          int64
	UserID      int64
	Amount      float64
}
