// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pramudya/arus/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Category  string
	Account   string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) (int64, error)
	GetTransactionByID(ctx context.Context, userID, id int64) (*model.Transaction, error)
	GetLastTransaction(ctx context.Context, userID int64) (*model.Transaction, error)
	GetTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	HasRecentDuplicate(ctx context.Context, txn *model.Transaction, window time.Duration) (bool, error)
	GetCategoryHistory(ctx context.Context, userID int64, txnType model.TransactionType, limit int) ([]CategoryHistoryEntry, error)
	GetBalance(ctx context.Context, userID int64, account string) (float64, error)
	GetMonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*MonthlySummary, error)

	// Goal operations
	CreateGoal(ctx context.Context, goal *model.Goal) (int64, error)
	GetGoalByID(ctx context.Context, userID, id int64) (*model.Goal, error)
	GetGoalByName(ctx context.Context, userID int64, name string) (*model.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, id int64) error

	// Conversation session operations
	GetSession(ctx context.Context, userID int64, sessionID string) (*model.Session, error)
	SaveSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context, userID int64, sessionID string) error
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CategoryHistoryEntry is a (category, description) pair the user has
// logged before, with how often it occurred. Used to suggest categories
// for new transactions.
type CategoryHistoryEntry struct {
	Category    string
	Description string
	Count       int
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
}

// MonthlySummary contains income, expense, and net calculations for one month.
type MonthlySummary struct {
	IncomeByCategory  map[string]CategorySummary
	ExpenseByCategory map[string]CategorySummary
	Period            DateRange
	TotalIncome       float64
	TotalExpense      float64
	Net               float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
