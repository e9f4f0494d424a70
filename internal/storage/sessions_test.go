package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
)

func testSession(userID int64, sessionID string) *model.Session {
	return &model.Session{
		UserID:    userID,
		SessionID: sessionID,
		Flow:      "add_transaction",
		State:     "AWAITING_AMOUNT",
		Data:      map[string]any{"type": "expense"},
	}
}

func TestSQLiteStorage_SaveAndGetSession(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	session := testSession(1, "sess-1")
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	got, err := store.GetSession(ctx, 1, "sess-1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.Flow != "add_transaction" {
		t.Errorf("Expected flow add_transaction, got %q", got.Flow)
	}
	if got.State != "AWAITING_AMOUNT" {
		t.Errorf("Expected state AWAITING_AMOUNT, got %q", got.State)
	}
	if got.Data["type"] != "expense" {
		t.Errorf("Expected data type expense, got %v", got.Data["type"])
	}
}

func TestSQLiteStorage_SaveSession_ReplacesExisting(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSession(ctx, testSession(1, "sess-1")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	updated := testSession(1, "sess-1")
	updated.State = "AWAITING_CATEGORY"
	updated.Data = map[string]any{"type": "expense", "amount": 50000.0}
	if err := store.SaveSession(ctx, updated); err != nil {
		t.Fatalf("Failed to replace session: %v", err)
	}

	got, err := store.GetSession(ctx, 1, "sess-1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.State != "AWAITING_CATEGORY" {
		t.Errorf("Expected replaced state AWAITING_CATEGORY, got %q", got.State)
	}
	if got.Data["amount"] != 50000.0 {
		t.Errorf("Expected amount 50000 in data, got %v", got.Data["amount"])
	}
}

func TestSQLiteStorage_DeleteSession(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSession(ctx, testSession(1, "sess-1")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if err := store.DeleteSession(ctx, 1, "sess-1"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	if _, err := store.GetSession(ctx, 1, "sess-1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error
	if err := store.DeleteSession(ctx, 1, "sess-1"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestSQLiteStorage_DeleteExpiredSessions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSession(ctx, testSession(1, "old")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if err := store.SaveSession(ctx, testSession(1, "fresh")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// Cutoff in the future expires everything saved so far
	removed, err := store.DeleteExpiredSessions(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Failed to delete expired sessions: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 sessions removed, got %d", removed)
	}

	removed, err = store.DeleteExpiredSessions(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Failed to delete expired sessions: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 sessions removed, got %d", removed)
	}
}
