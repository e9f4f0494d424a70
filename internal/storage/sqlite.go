package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// dbtx is the subset of database operations shared by *sql.DB and *sql.Tx.
// Query helpers take it so the same code serves both paths.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) CreateTransaction(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(txn); err != nil {
		return 0, err
	}
	return t.storage.createTransactionTx(ctx, t.tx, txn)
}

func (t *sqliteTransaction) GetTransactionByID(ctx context.Context, userID, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getTransactionByIDTx(ctx, t.tx, userID, id)
}

func (t *sqliteTransaction) GetLastTransaction(ctx context.Context, userID int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getLastTransactionTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) GetTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getTransactionsTx(ctx, t.tx, userID, filter)
}

func (t *sqliteTransaction) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return t.storage.updateTransactionTx(ctx, t.tx, txn)
}

func (t *sqliteTransaction) DeleteTransaction(ctx context.Context, userID, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.deleteTransactionTx(ctx, t.tx, userID, id)
}

func (t *sqliteTransaction) HasRecentDuplicate(ctx context.Context, txn *model.Transaction, window time.Duration) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateTransaction(txn); err != nil {
		return false, err
	}
	return t.storage.hasRecentDuplicateTx(ctx, t.tx, txn, window)
}

func (t *sqliteTransaction) GetCategoryHistory(ctx context.Context, userID int64, txnType model.TransactionType, limit int) ([]service.CategoryHistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getCategoryHistoryTx(ctx, t.tx, userID, txnType, limit)
}

func (t *sqliteTransaction) GetBalance(ctx context.Context, userID int64, account string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(account, "account"); err != nil {
		return 0, err
	}
	return t.storage.getBalanceTx(ctx, t.tx, userID, account)
}

func (t *sqliteTransaction) GetMonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*service.MonthlySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getMonthlySummaryTx(ctx, t.tx, userID, year, month)
}

func (t *sqliteTransaction) CreateGoal(ctx context.Context, goal *model.Goal) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateGoal(goal); err != nil {
		return 0, err
	}
	return t.storage.createGoalTx(ctx, t.tx, goal)
}

func (t *sqliteTransaction) GetGoalByID(ctx context.Context, userID, id int64) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getGoalByIDTx(ctx, t.tx, userID, id)
}

func (t *sqliteTransaction) GetGoalByName(ctx context.Context, userID int64, name string) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.getGoalByNameTx(ctx, t.tx, userID, name)
}

func (t *sqliteTransaction) ListGoals(ctx context.Context, userID int64) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listGoalsTx(ctx, t.tx, userID)
}

func (t *sqliteTransaction) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(goal); err != nil {
		return err
	}
	return t.storage.updateGoalTx(ctx, t.tx, goal)
}

func (t *sqliteTransaction) DeleteGoal(ctx context.Context, userID, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.deleteGoalTx(ctx, t.tx, userID, id)
}

func (t *sqliteTransaction) GetSession(ctx context.Context, userID int64, sessionID string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}
	return t.storage.getSessionTx(ctx, t.tx, userID, sessionID)
}

func (t *sqliteTransaction) SaveSession(ctx context.Context, session *model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}
	return t.storage.saveSessionTx(ctx, t.tx, session)
}

func (t *sqliteTransaction) DeleteSession(ctx context.Context, userID int64, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	return t.storage.deleteSessionTx(ctx, t.tx, userID, sessionID)
}

func (t *sqliteTransaction) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.deleteExpiredSessionsTx(ctx, t.tx, cutoff)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
