// Package storage provides the data persistence layer for the arus application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pramudya/arus/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("id must be positive")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidGoal        = errors.New("invalid goal")
	ErrInvalidSession     = errors.New("invalid session")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an identifier is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	}
	switch txn.Type {
	case model.TransactionTypeIncome, model.TransactionTypeExpense, model.TransactionTypeTransfer:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Amount == 0 {
		return fmt.Errorf("%w: amount cannot be zero", ErrInvalidTransaction)
	}
	if txn.Type != model.TransactionTypeTransfer && txn.Amount < 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Account) == "" {
		return fmt.Errorf("%w: missing account", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateGoal validates a savings goal.
func validateGoal(goal *model.Goal) error {
	if goal == nil {
		return fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if goal.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidGoal)
	}
	if strings.TrimSpace(goal.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidGoal)
	}
	if goal.TargetAmount <= 0 {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidGoal)
	}
	if goal.CurrentAmount < 0 {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidGoal)
	}
	return nil
}

// validateSession validates a conversation session.
func validateSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if session.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidSession)
	}
	if strings.TrimSpace(session.SessionID) == "" {
		return fmt.Errorf("%w: missing session ID", ErrInvalidSession)
	}
	if strings.TrimSpace(session.Flow) == "" {
		return fmt.Errorf("%w: missing flow", ErrInvalidSession)
	}
	if strings.TrimSpace(session.State) == "" {
		return fmt.Errorf("%w: missing state", ErrInvalidSession)
	}
	return nil
}
