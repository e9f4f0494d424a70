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
)

// CreateGoal inserts a savings goal and returns its ID.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *model.Goal) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateGoal(goal); err != nil {
		return 0, err
	}
	return s.createGoalTx(ctx, s.db, goal)
}

func (s *SQLiteStorage) createGoalTx(ctx context.Context, db dbtx, goal *model.Goal) (int64, error) {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	if goal.Status == "" {
		goal.Status = model.GoalStatusActive
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		string(goal.Status),
		goal.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("goal %q: %w", goal.Name, common.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get goal ID: %w", err)
	}
	goal.ID = id
	return id, nil
}

// GetGoalByID fetches a goal owned by the user.
func (s *SQLiteStorage) GetGoalByID(ctx context.Context, userID, id int64) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getGoalByIDTx(ctx, s.db, userID, id)
}

func (s *SQLiteStorage) getGoalByIDTx(ctx context.Context, db dbtx, userID, id int64) (*model.Goal, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, deadline, status, created_at
		FROM goals
		WHERE user_id = ? AND id = ?
	`, userID, id)

	return scanGoal(row)
}

// GetGoalByName fetches a goal by its exact name, case-insensitive.
func (s *SQLiteStorage) GetGoalByName(ctx context.Context, userID int64, name string) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getGoalByNameTx(ctx, s.db, userID, name)
}

func (s *SQLiteStorage) getGoalByNameTx(ctx context.Context, db dbtx, userID int64, name string) (*model.Goal, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, deadline, status, created_at
		FROM goals
		WHERE user_id = ? AND name = ? COLLATE NOCASE
	`, userID, name)

	goal, err := scanGoal(row)
	if !errors.Is(err, common.ErrNotFound) {
		return goal, err
	}

	// No exact match: fall back to a substring match so "liburan" finds
	// "Liburan Bali".
	row = db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, deadline, status, created_at
		FROM goals
		WHERE user_id = ? AND name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY created_at DESC, id DESC
	`, userID, name)

	return scanGoal(row)
}

// ListGoals returns all goals for a user, newest first.
func (s *SQLiteStorage) ListGoals(ctx context.Context, userID int64) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listGoalsTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) listGoalsTx(ctx context.Context, db dbtx, userID int64) ([]model.Goal, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, deadline, status, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var goal model.Goal
		var status string
		var deadline sql.NullTime
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount,
			&goal.CurrentAmount, &deadline, &status, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goal.Status = model.GoalStatus(status)
		if deadline.Valid {
			goal.Deadline = &deadline.Time
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// UpdateGoal persists changes to an existing goal.
func (s *SQLiteStorage) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(goal); err != nil {
		return err
	}
	return s.updateGoalTx(ctx, s.db, goal)
}

func (s *SQLiteStorage) updateGoalTx(ctx context.Context, db dbtx, goal *model.Goal) error {
	if err := validateID(goal.ID, "goal.ID"); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE goals
		SET name = ?, target_amount = ?, current_amount = ?, deadline = ?, status = ?
		WHERE user_id = ? AND id = ?
	`,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		string(goal.Status),
		goal.UserID,
		goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", goal.ID, common.ErrNotFound)
	}
	return nil
}

// DeleteGoal removes a goal owned by the user.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, userID, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteGoalTx(ctx, s.db, userID, id)
}

func (s *SQLiteStorage) deleteGoalTx(ctx context.Context, db dbtx, userID, id int64) error {
	if err := validateID(userID, "userID"); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanGoal(row *sql.Row) (*model.Goal, error) {
	var goal model.Goal
	var status string
	var deadline sql.NullTime
	err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount,
		&goal.CurrentAmount, &deadline, &status, &goal.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	goal.Status = model.GoalStatus(status)
	if deadline.Valid {
		goal.Deadline = &deadline.Time
	}
	return &goal, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
