package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testTransaction(userID int64, txnType model.TransactionType, amount float64, category, account string) *model.Transaction {
	return &model.Transaction{
		UserID:   userID,
		Type:     txnType,
		Amount:   amount,
		Category: category,
		Account:  account,
		Date:     time.Now(),
	}
}

func TestSQLiteStorage_CreateAndGetTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	id, err := store.CreateTransaction(ctx, txn)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	got, err := store.GetTransactionByID(ctx, 1, id)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.Amount != 50000 {
		t.Errorf("Expected amount 50000, got %v", got.Amount)
	}
	if got.Category != "Makan" {
		t.Errorf("Expected category Makan, got %q", got.Category)
	}
	if got.Type != model.TransactionTypeExpense {
		t.Errorf("Expected type expense, got %q", got.Type)
	}
}

func TestSQLiteStorage_GetTransactionByID_WrongUser(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateTransaction(ctx, testTransaction(1, model.TransactionTypeExpense, 10000, "Makan", "Cash"))
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	_, err = store.GetTransactionByID(ctx, 2, id)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for other user's transaction, got %v", err)
	}
}

func TestSQLiteStorage_GetLastTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := testTransaction(1, model.TransactionTypeExpense, 10000, "Makan", "Cash")
	first.CreatedAt = time.Now().Add(-time.Minute)
	if _, err := store.CreateTransaction(ctx, first); err != nil {
		t.Fatalf("Failed to create first transaction: %v", err)
	}

	second := testTransaction(1, model.TransactionTypeIncome, 5000000, "Gaji", "BCA")
	if _, err := store.CreateTransaction(ctx, second); err != nil {
		t.Fatalf("Failed to create second transaction: %v", err)
	}

	last, err := store.GetLastTransaction(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get last transaction: %v", err)
	}
	if last.Category != "Gaji" {
		t.Errorf("Expected last transaction to be Gaji, got %q", last.Category)
	}
}

func TestSQLiteStorage_GetTransactions_Filter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, txn := range []*model.Transaction{
		testTransaction(1, model.TransactionTypeExpense, 10000, "Makan", "Cash"),
		testTransaction(1, model.TransactionTypeExpense, 20000, "Transport", "Cash"),
		testTransaction(1, model.TransactionTypeIncome, 5000000, "Gaji", "BCA"),
		testTransaction(2, model.TransactionTypeExpense, 30000, "Makan", "Cash"),
	} {
		if _, err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}
	}

	expenses, err := store.GetTransactions(ctx, 1, service.TransactionFilter{Type: model.TransactionTypeExpense})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(expenses) != 2 {
		t.Errorf("Expected 2 expenses for user 1, got %d", len(expenses))
	}

	makan, err := store.GetTransactions(ctx, 1, service.TransactionFilter{Category: "Makan"})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(makan) != 1 {
		t.Errorf("Expected 1 Makan transaction for user 1, got %d", len(makan))
	}
}

func TestSQLiteStorage_UpdateTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	if _, err := store.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	txn.Amount = 75000
	txn.Category = "Transport"
	if err := store.UpdateTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to update transaction: %v", err)
	}

	got, err := store.GetTransactionByID(ctx, 1, txn.ID)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.Amount != 75000 || got.Category != "Transport" {
		t.Errorf("Update not persisted: amount=%v category=%q", got.Amount, got.Category)
	}
}

func TestSQLiteStorage_DeleteTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	id, err := store.CreateTransaction(ctx, txn)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	if err := store.DeleteTransaction(ctx, 1, id); err != nil {
		t.Fatalf("Failed to delete transaction: %v", err)
	}

	_, err = store.GetTransactionByID(ctx, 1, id)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteTransaction(ctx, 1, id); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestSQLiteStorage_HasRecentDuplicate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	if _, err := store.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	dup := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	dup.Date = txn.Date
	found, err := store.HasRecentDuplicate(ctx, dup, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to check duplicates: %v", err)
	}
	if !found {
		t.Error("Expected duplicate within window")
	}

	other := testTransaction(1, model.TransactionTypeExpense, 60000, "Makan", "Cash")
	other.Date = txn.Date
	found, err = store.HasRecentDuplicate(ctx, other, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to check duplicates: %v", err)
	}
	if found {
		t.Error("Different amount should not count as duplicate")
	}

	backfill := testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash")
	backfill.Date = txn.Date.AddDate(0, 0, -1)
	found, err = store.HasRecentDuplicate(ctx, backfill, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to check duplicates: %v", err)
	}
	if found {
		t.Error("Same transaction on a different date should not count as duplicate")
	}
}

func TestSQLiteStorage_GetCategoryHistory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed := []struct {
		category    string
		description string
		times       int
	}{
		{"Makan", "nasi goreng depan kantor", 3},
		{"Transport", "gojek ke kantor", 2},
		{"Makan", "", 1},
	}
	for _, s := range seed {
		for i := 0; i < s.times; i++ {
			txn := testTransaction(1, model.TransactionTypeExpense, 25000, s.category, "Cash")
			txn.Description = s.description
			if _, err := store.CreateTransaction(ctx, txn); err != nil {
				t.Fatalf("Failed to create transaction: %v", err)
			}
		}
	}
	// Another user's history must not leak in.
	otherUser := testTransaction(2, model.TransactionTypeExpense, 25000, "Hiburan", "Cash")
	otherUser.Description = "nonton bioskop"
	if _, err := store.CreateTransaction(ctx, otherUser); err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	entries, err := store.GetCategoryHistory(ctx, 1, model.TransactionTypeExpense, 10)
	if err != nil {
		t.Fatalf("Failed to get category history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries (blank descriptions excluded), got %d", len(entries))
	}
	if entries[0].Category != "Makan" || entries[0].Count != 3 {
		t.Errorf("Expected most frequent entry Makan x3, got %q x%d", entries[0].Category, entries[0].Count)
	}
	if entries[1].Category != "Transport" || entries[1].Description != "gojek ke kantor" {
		t.Errorf("Expected Transport entry, got %+v", entries[1])
	}
}

func TestSQLiteStorage_GetBalance(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	income := testTransaction(1, model.TransactionTypeIncome, 1000000, "Gaji", "Cash")
	expense := testTransaction(1, model.TransactionTypeExpense, 250000, "Makan", "Cash")
	transferOut := testTransaction(1, model.TransactionTypeTransfer, -100000, "", "Cash")
	transferOut.Category = "Transfer"
	transferIn := testTransaction(1, model.TransactionTypeTransfer, 100000, "Transfer", "BCA")

	for _, txn := range []*model.Transaction{income, expense, transferOut, transferIn} {
		if _, err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}
	}

	cash, err := store.GetBalance(ctx, 1, "Cash")
	if err != nil {
		t.Fatalf("Failed to get balance: %v", err)
	}
	if cash != 650000 {
		t.Errorf("Expected Cash balance 650000, got %v", cash)
	}

	bca, err := store.GetBalance(ctx, 1, "BCA")
	if err != nil {
		t.Fatalf("Failed to get balance: %v", err)
	}
	if bca != 100000 {
		t.Errorf("Expected BCA balance 100000, got %v", bca)
	}
}

func TestSQLiteStorage_GetMonthlySummary(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	for _, txn := range []*model.Transaction{
		testTransaction(1, model.TransactionTypeIncome, 5000000, "Gaji", "BCA"),
		testTransaction(1, model.TransactionTypeExpense, 100000, "Makan", "Cash"),
		testTransaction(1, model.TransactionTypeExpense, 50000, "Makan", "Cash"),
		testTransaction(1, model.TransactionTypeExpense, 75000, "Transport", "Cash"),
	} {
		if _, err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to create transaction: %v", err)
		}
	}

	summary, err := store.GetMonthlySummary(ctx, 1, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("Failed to get monthly summary: %v", err)
	}

	if summary.TotalIncome != 5000000 {
		t.Errorf("Expected total income 5000000, got %v", summary.TotalIncome)
	}
	if summary.TotalExpense != 225000 {
		t.Errorf("Expected total expense 225000, got %v", summary.TotalExpense)
	}
	if summary.Net != 4775000 {
		t.Errorf("Expected net 4775000, got %v", summary.Net)
	}
	if makan := summary.ExpenseByCategory["Makan"]; makan.Count != 2 || makan.Amount != 150000 {
		t.Errorf("Unexpected Makan summary: %+v", makan)
	}
}

func TestSQLiteStorage_TransferAtomicity(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	out := testTransaction(1, model.TransactionTypeTransfer, -200000, "Transfer", "Cash")
	in := testTransaction(1, model.TransactionTypeTransfer, 200000, "Transfer", "BCA")

	if _, err := tx.CreateTransaction(ctx, out); err != nil {
		t.Fatalf("Failed to create outgoing row: %v", err)
	}
	if _, err := tx.CreateTransaction(ctx, in); err != nil {
		t.Fatalf("Failed to create incoming row: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	txns, err := store.GetTransactions(ctx, 1, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("Expected no transactions after rollback, got %d", len(txns))
	}
}

func TestSQLiteStorage_NestedTransactionRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.BeginTx(ctx); err == nil {
		t.Error("Expected nested transaction to be rejected")
	}
}
