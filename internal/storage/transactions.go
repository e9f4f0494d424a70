package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

// CreateTransaction inserts a transaction and returns its ID.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(txn); err != nil {
		return 0, err
	}
	return s.createTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) createTransactionTx(ctx context.Context, db dbtx, txn *model.Transaction) (int64, error) {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, description, account, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.UserID,
		string(txn.Type),
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Account,
		txn.Date,
		txn.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction ID: %w", err)
	}
	txn.ID = id
	return id, nil
}

// GetTransactionByID fetches a single transaction owned by the user.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, userID, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTransactionByIDTx(ctx, s.db, userID, id)
}

func (s *SQLiteStorage) getTransactionByIDTx(ctx context.Context, db dbtx, userID, id int64) (*model.Transaction, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, category, description, account, date, created_at
		FROM transactions
		WHERE user_id = ? AND id = ?
	`, userID, id)

	return scanTransaction(row)
}

// GetLastTransaction fetches the most recently recorded transaction for a user.
func (s *SQLiteStorage) GetLastTransaction(ctx context.Context, userID int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getLastTransactionTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getLastTransactionTx(ctx context.Context, db dbtx, userID int64) (*model.Transaction, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, category, description, account, date, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID)

	return scanTransaction(row)
}

// GetTransactions fetches transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTransactionsTx(ctx, s.db, userID, filter)
}

func (s *SQLiteStorage) getTransactionsTx(ctx context.Context, db dbtx, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any
	conditions = append(conditions, "user_id = ?")
	args = append(args, userID)

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Account != "" {
		conditions = append(conditions, "account = ?")
		args = append(args, filter.Account)
	}

	query := `
		SELECT id, user_id, type, amount, category, description, account, date, created_at
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date DESC, id DESC`

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var txnType string
		if err := rows.Scan(&txn.ID, &txn.UserID, &txnType, &txn.Amount, &txn.Category,
			&txn.Description, &txn.Account, &txn.Date, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Type = model.TransactionType(txnType)
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// UpdateTransaction persists changes to an existing transaction.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.updateTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) updateTransactionTx(ctx context.Context, db dbtx, txn *model.Transaction) error {
	if err := validateID(txn.ID, "txn.ID"); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount = ?, category = ?, description = ?, account = ?, date = ?
		WHERE user_id = ? AND id = ?
	`,
		string(txn.Type),
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Account,
		txn.Date,
		txn.UserID,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", txn.ID, common.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteTransactionTx(ctx, s.db, userID, id)
}

func (s *SQLiteStorage) deleteTransactionTx(ctx context.Context, db dbtx, userID, id int64) error {
	if err := validateID(userID, "userID"); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// HasRecentDuplicate reports whether an identical transaction was recorded
// within the given window. Used to absorb accidental double submissions.
func (s *SQLiteStorage) HasRecentDuplicate(ctx context.Context, txn *model.Transaction, window time.Duration) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateTransaction(txn); err != nil {
		return false, err
	}
	return s.hasRecentDuplicateTx(ctx, s.db, txn, window)
}

func (s *SQLiteStorage) hasRecentDuplicateTx(ctx context.Context, db dbtx, txn *model.Transaction, window time.Duration) (bool, error) {
	cutoff := time.Now().Add(-window)

	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = ? AND date = ? AND type = ? AND amount = ? AND category = ? AND account = ?
			AND created_at >= ?
	`,
		txn.UserID,
		txn.Date,
		string(txn.Type),
		txn.Amount,
		txn.Category,
		txn.Account,
		cutoff,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicates: %w", err)
	}

	return count > 0, nil
}

// GetCategoryHistory returns the user's most frequent (category,
// description) pairs for a transaction type, most frequent first.
func (s *SQLiteStorage) GetCategoryHistory(ctx context.Context, userID int64, txnType model.TransactionType, limit int) ([]service.CategoryHistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCategoryHistoryTx(ctx, s.db, userID, txnType, limit)
}

func (s *SQLiteStorage) getCategoryHistoryTx(ctx context.Context, db dbtx, userID int64, txnType model.TransactionType, limit int) ([]service.CategoryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT category, description, COUNT(*)
		FROM transactions
		WHERE user_id = ? AND type = ? AND description != ''
		GROUP BY category, description
		ORDER BY COUNT(*) DESC
		LIMIT ?
	`, userID, string(txnType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query category history: %w", err)
	}
	defer rows.Close()

	var entries []service.CategoryHistoryEntry
	for rows.Next() {
		var e service.CategoryHistoryEntry
		if err := rows.Scan(&e.Category, &e.Description, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category history: %w", err)
	}
	return entries, nil
}

// scanTransaction reads one transaction row, mapping sql.ErrNoRows to
// common.ErrNotFound.
func scanTransaction(row *sql.Row) (*model.Transaction, error) {
	var txn model.Transaction
	var txnType string
	err := row.Scan(&txn.ID, &txn.UserID, &txnType, &txn.Amount, &txn.Category,
		&txn.Description, &txn.Account, &txn.Date, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Type = model.TransactionType(txnType)
	return &txn, nil
}
