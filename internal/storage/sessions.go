package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
)

// GetSession fetches the conversation session for a (user, session) pair.
// Expiry is the caller's concern; rows are returned as stored.
func (s *SQLiteStorage) GetSession(ctx context.Context, userID int64, sessionID string) (*model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}
	return s.getSessionTx(ctx, s.db, userID, sessionID)
}

func (s *SQLiteStorage) getSessionTx(ctx context.Context, db dbtx, userID int64, sessionID string) (*model.Session, error) {
	if err := validateID(userID, "userID"); err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT user_id, session_id, flow, state, data, created_at, updated_at
		FROM conversation_sessions
		WHERE user_id = ? AND session_id = ?
	`, userID, sessionID)

	var session model.Session
	var data string
	err := row.Scan(&session.UserID, &session.SessionID, &session.Flow, &session.State,
		&data, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &session.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return &session, nil
}

// SaveSession replaces the stored session for the (user, session) pair.
// Delete-then-insert keeps exactly one row per pair.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}
	return s.saveSessionTx(ctx, s.db, session)
}

func (s *SQLiteStorage) saveSessionTx(ctx context.Context, db dbtx, session *model.Session) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	data := session.Data
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session data: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		DELETE FROM conversation_sessions WHERE user_id = ? AND session_id = ?
	`, session.UserID, session.SessionID); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO conversation_sessions (user_id, session_id, flow, state, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.UserID,
		session.SessionID,
		session.Flow,
		session.State,
		string(encoded),
		session.CreatedAt,
		session.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// DeleteSession removes the session for a (user, session) pair. Deleting a
// missing session is not an error.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, userID int64, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	return s.deleteSessionTx(ctx, s.db, userID, sessionID)
}

func (s *SQLiteStorage) deleteSessionTx(ctx context.Context, db dbtx, userID int64, sessionID string) error {
	if err := validateID(userID, "userID"); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `
		DELETE FROM conversation_sessions WHERE user_id = ? AND session_id = ?
	`, userID, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions whose last update is before the
// cutoff, returning the number removed.
func (s *SQLiteStorage) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.deleteExpiredSessionsTx(ctx, s.db, cutoff)
}

func (s *SQLiteStorage) deleteExpiredSessionsTx(ctx context.Context, db dbtx, cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `
		DELETE FROM conversation_sessions WHERE updated_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired sessions: %w", err)
	}
	return affected, nil
}
