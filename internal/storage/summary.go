package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

// GetBalance returns the signed balance of an account. Income adds, expense
// subtracts, transfer rows carry their own sign.
func (s *SQLiteStorage) GetBalance(ctx context.Context, userID int64, account string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(account, "account"); err != nil {
		return 0, err
	}
	return s.getBalanceTx(ctx, s.db, userID, account)
}

func (s *SQLiteStorage) getBalanceTx(ctx context.Context, db dbtx, userID int64, account string) (float64, error) {
	if err := validateID(userID, "userID"); err != nil {
		return 0, err
	}

	var balance float64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE
			WHEN type = 'income' THEN amount
			WHEN type = 'expense' THEN -amount
			ELSE amount
		END), 0)
		FROM transactions
		WHERE user_id = ? AND account = ?
	`, userID, account).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

// GetMonthlySummary aggregates income and expense by category for one
// calendar month. Transfers are excluded from both totals.
func (s *SQLiteStorage) GetMonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*service.MonthlySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getMonthlySummaryTx(ctx, s.db, userID, year, month)
}

func (s *SQLiteStorage) getMonthlySummaryTx(ctx context.Context, db dbtx, userID int64, year int, month time.Month) (*service.MonthlySummary, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	rows, err := db.QueryContext(ctx, `
		SELECT type, category, COUNT(*), SUM(amount)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ? AND type IN ('income', 'expense')
		GROUP BY type, category
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := &service.MonthlySummary{
		IncomeByCategory:  make(map[string]service.CategorySummary),
		ExpenseByCategory: make(map[string]service.CategorySummary),
		Period:            service.DateRange{Start: start, End: end},
	}

	for rows.Next() {
		var txnType, category string
		var count int
		var amount float64
		if err := rows.Scan(&txnType, &category, &count, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		entry := service.CategorySummary{Count: count, Amount: amount}
		switch model.TransactionType(txnType) {
		case model.TransactionTypeIncome:
			summary.IncomeByCategory[category] = entry
			summary.TotalIncome += amount
		case model.TransactionTypeExpense:
			summary.ExpenseByCategory[category] = entry
			summary.TotalExpense += amount
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.Net = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}
