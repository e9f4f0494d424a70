package executor

import (
	"context"
	"errors"
	"strings"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/interpret"
	"github.com/pramudya/arus/internal/model"
)

const (
	maxDescriptionLen    = 80
	categoryHistoryLimit = 50
)

// resolveAccount interprets a raw account value. A fuzzy match pauses
// for confirmation unless the caller already confirmed; only an exact
// match proceeds silently.
func resolveAccount(raw string, isConfirmed bool) (string, *Result) {
	res := interpret.Account(raw)
	if res.Confidence == interpret.NoMatch {
		return "", &Result{
			Message: res.Explanation,
			Code:    CodeInvalidAccount,
			AskUser: res.Explanation,
		}
	}
	if res.Confidence < interpret.Exact && !isConfirmed {
		return "", &Result{
			Message:              res.ConfirmationMessage(),
			Code:                 CodeConfirmField,
			RequiresConfirmation: true,
			Details: map[string]any{
				"field":        "account",
				"value":        res.Value,
				"alternatives": res.Alternatives,
			},
		}
	}
	return res.Value, nil
}

// resolveDate interprets a raw date value with the same confirmation
// gate as accounts.
func (e *Executor) resolveDate(raw string, isConfirmed bool) (string, *Result) {
	res := interpret.Date(raw, e.now())
	if res.Confidence == interpret.NoMatch {
		return "", &Result{
			Message: res.Explanation,
			Code:    CodeInvalidDate,
			AskUser: res.Explanation,
		}
	}
	if res.Confidence < interpret.Exact && !isConfirmed {
		return "", &Result{
			Message:              res.ConfirmationMessage(),
			Code:                 CodeConfirmField,
			RequiresConfirmation: true,
			Details: map[string]any{
				"field": "date",
				"value": res.Value,
			},
		}
	}
	return res.Value, nil
}

// resolveCategory interprets a raw category for a transaction type.
func resolveCategory(raw string, txnType model.TransactionType, isConfirmed bool) (string, *Result) {
	res := interpret.Category(raw, txnType)
	if res.Confidence == interpret.NoMatch {
		return "", &Result{
			Message: res.Explanation,
			Code:    CodeInvalidCategory,
			AskUser: res.Explanation,
		}
	}
	if res.Confidence < interpret.Exact && !isConfirmed {
		return "", &Result{
			Message:              res.ConfirmationMessage(),
			Code:                 CodeConfirmField,
			RequiresConfirmation: true,
			Details: map[string]any{
				"field":        "category",
				"value":        res.Value,
				"alternatives": res.Alternatives,
			},
		}
	}
	return res.Value, nil
}

// suggestCategory guesses a category from the description, feeding the
// user's own transaction history into the interpreter. A history lookup
// failure only costs the suggestion, never the transaction.
func (e *Executor) suggestCategory(ctx context.Context, userID int64, description string, txnType model.TransactionType) *interpret.Suggestion {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	var history []interpret.HistoryEntry
	entries, err := e.store.GetCategoryHistory(ctx, userID, txnType, categoryHistoryLimit)
	if err != nil {
		common.LogDebug("category history lookup failed", common.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	for _, entry := range entries {
		history = append(history, interpret.HistoryEntry{
			Category:    entry.Category,
			Description: entry.Description,
			Count:       entry.Count,
		})
	}
	return interpret.SuggestCategory(description, txnType, history)
}

// transactionType resolves the type from args or the action alias.
func transactionType(action string, args map[string]any) (model.TransactionType, *Result) {
	if raw, ok := stringArg(args, "type"); ok && raw != "" {
		switch strings.ToLower(raw) {
		case "income", "pemasukan":
			return model.TransactionTypeIncome, nil
		case "expense", "pengeluaran":
			return model.TransactionTypeExpense, nil
		default:
			return "", &Result{
				Message: "Tipe transaksi harus 'income' atau 'expense'",
				Code:    "INVALID_TYPE",
			}
		}
	}
	if strings.Contains(action, "income") {
		return model.TransactionTypeIncome, nil
	}
	return model.TransactionTypeExpense, nil
}

func (e *Executor) addTransaction(ctx context.Context, userID int64, action string, args map[string]any) Result {
	txnType, badType := transactionType(action, args)
	if badType != nil {
		return *badType
	}

	amount, present, ok := amountArg(args, "amount")
	if !present {
		return Result{
			Message: "Jumlah transaksi wajib diisi",
			Code:    CodeMissingAmount,
			AskUser: "Berapa jumlahnya? (misal: 50 ribu, 100k, 5 juta)",
		}
	}
	if !ok {
		return Result{
			Message: "Jumlah transaksi tidak dikenali",
			Code:    CodeInvalidAmount,
			AskUser: "Berapa jumlahnya? (misal: 50 ribu, 100k, 5 juta)",
		}
	}
	if amount > interpret.MaxAmount {
		return Result{
			Message: "Jumlah terlalu besar (maksimum Rp 100 miliar)",
			Code:    CodeAmountTooLarge,
		}
	}

	rawCategory, mentioned := stringArg(args, "category")
	if !mentioned || rawCategory == "" {
		res := Result{
			Message: "Kategori transaksi wajib diisi",
			Code:    CodeMissingCategory,
			AskUser: "Kategori apa? (misal: Makan, Transport, Hiburan, dsb)",
		}
		description, _ := stringArg(args, "description")
		if s := e.suggestCategory(ctx, userID, description, txnType); s != nil {
			res.AskUser = s.Message + " Atau sebutkan kategori lain."
			res.Details = map[string]any{
				"suggested_category": s.Category,
				"suggestion_method":  s.Method,
			}
		}
		return res
	}
	category, fail := resolveCategory(rawCategory, txnType, confirmed(args))
	if fail != nil {
		return *fail
	}

	// Account and date default only when never mentioned at all.
	account := model.AccountCash
	if raw, mentioned := stringArg(args, "account"); mentioned {
		resolved, fail := resolveAccount(raw, confirmed(args))
		if fail != nil {
			return *fail
		}
		account = resolved
	}

	date := e.now().Format("2006-01-02")
	if raw, mentioned := stringArg(args, "date"); mentioned {
		resolved, fail := e.resolveDate(raw, confirmed(args))
		if fail != nil {
			return *fail
		}
		date = resolved
	}

	if amount > e.largeThreshold && !confirmed(args) {
		return Result{
			Message:              "Jumlah " + formatRupiah(amount) + " cukup besar. Lanjutkan?",
			Code:                 CodeLargeAmount,
			RequiresConfirmation: true,
			Details:              map[string]any{"amount": amount},
		}
	}

	when, err := e.parseDay(date)
	if err != nil {
		return executionError(err, "mencatat transaksi", common.Fields{"user_id": userID})
	}

	description, _ := stringArg(args, "description")
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	txn := &model.Transaction{
		UserID:      userID,
		Type:        txnType,
		Amount:      amount,
		Category:    category,
		Description: description,
		Account:     account,
		Date:        when,
	}

	dup, err := e.store.HasRecentDuplicate(ctx, txn, e.dedupWindow)
	if err != nil {
		return executionError(err, "mencatat transaksi", common.Fields{"user_id": userID})
	}
	if dup {
		return Result{
			Message: "Transaksi yang sama baru saja dicatat, tidak dicatat ulang",
			Code:    CodeDuplicate,
			Details: map[string]any{"duplicate": true},
		}
	}

	if _, err := e.store.CreateTransaction(ctx, txn); err != nil {
		return executionError(err, "mencatat transaksi", common.Fields{"user_id": userID})
	}

	common.LogInfo("transaction recorded", common.Fields{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"type":           string(txnType),
		"amount":         amount,
	})

	return Result{
		Success: true,
		Message: "Transaksi " + string(txnType) + " " + formatRupiah(amount) + " berhasil dicatat",
		Details: map[string]any{
			"transaction_id": txn.ID,
			"amount":         amount,
			"category":       category,
			"account":        account,
			"date":           date,
		},
	}
}

func (e *Executor) updateTransaction(ctx context.Context, userID int64, args map[string]any) Result {
	id, ok := idArg(args, "id")
	if !ok {
		return Result{
			Message: "ID transaksi wajib diisi",
			Code:    CodeMissingID,
			AskUser: "Transaksi mana yang mau diubah? Sebutkan nomornya.",
		}
	}

	txn, err := e.store.GetTransactionByID(ctx, userID, id)
	if errors.Is(err, common.ErrNotFound) {
		return Result{
			Message: "Transaksi tidak ditemukan atau bukan milik Anda",
			Code:    CodeNotFound,
		}
	}
	if err != nil {
		return executionError(err, "memperbarui transaksi", common.Fields{"user_id": userID})
	}

	isConfirmed := confirmed(args)
	updated := false

	if raw, mentioned := stringArg(args, "type"); mentioned && raw != "" {
		newType, fail := transactionType("", args)
		if fail != nil {
			return *fail
		}
		txn.Type = newType
		updated = true
	}

	if amount, present, ok := amountArg(args, "amount"); present {
		if !ok {
			return Result{
				Message: "Nilai amount tidak valid",
				Code:    CodeInvalidAmount,
			}
		}
		txn.Amount = amount
		updated = true
	}

	if raw, mentioned := stringArg(args, "category"); mentioned && raw != "" {
		category, fail := resolveCategory(raw, txn.Type, isConfirmed)
		if fail != nil {
			return *fail
		}
		txn.Category = category
		updated = true
	}

	if raw, mentioned := stringArg(args, "account"); mentioned && raw != "" {
		account, fail := resolveAccount(raw, isConfirmed)
		if fail != nil {
			return *fail
		}
		txn.Account = account
		updated = true
	}

	if raw, mentioned := stringArg(args, "date"); mentioned && raw != "" {
		date, fail := e.resolveDate(raw, isConfirmed)
		if fail != nil {
			return *fail
		}
		when, err := e.parseDay(date)
		if err != nil {
			return executionError(err, "memperbarui transaksi", common.Fields{"user_id": userID})
		}
		txn.Date = when
		updated = true
	}

	if raw, mentioned := stringArg(args, "description"); mentioned {
		if len(raw) > maxDescriptionLen {
			raw = raw[:maxDescriptionLen]
		}
		txn.Description = raw
		updated = true
	}

	if !updated {
		return Result{
			Message: "Tidak ada field yang diperbarui",
			Code:    CodeNoUpdates,
		}
	}

	if err := e.store.UpdateTransaction(ctx, txn); err != nil {
		return executionError(err, "memperbarui transaksi", common.Fields{"user_id": userID})
	}

	common.LogInfo("transaction updated", common.Fields{
		"user_id":        userID,
		"transaction_id": id,
	})

	return Result{
		Success: true,
		Message: "Transaksi berhasil diperbarui",
		Details: map[string]any{"transaction_id": id},
	}
}

func (e *Executor) deleteTransaction(ctx context.Context, userID int64, args map[string]any) Result {
	id, ok := idArg(args, "id")
	if !ok {
		return Result{
			Message: "ID transaksi wajib diisi",
			Code:    CodeMissingID,
			AskUser: "Transaksi mana yang mau dihapus? Sebutkan nomornya.",
		}
	}

	txn, err := e.store.GetTransactionByID(ctx, userID, id)
	if errors.Is(err, common.ErrNotFound) {
		return Result{
			Message: "Transaksi tidak ditemukan",
			Code:    CodeNotFound,
		}
	}
	if err != nil {
		return executionError(err, "menghapus transaksi", common.Fields{"user_id": userID})
	}

	if !confirmed(args) {
		return Result{
			Message: "Hapus transaksi " + string(txn.Type) + " " + formatRupiah(txn.Amount) +
				" (" + txn.Category + ")? Aksi ini tidak dapat dibatalkan.",
			Code:                 "CONFIRM_DELETE",
			RequiresConfirmation: true,
			Details:              map[string]any{"transaction_id": id},
		}
	}

	if err := e.store.DeleteTransaction(ctx, userID, id); err != nil {
		return executionError(err, "menghapus transaksi", common.Fields{"user_id": userID})
	}

	common.LogInfo("transaction deleted", common.Fields{
		"user_id":        userID,
		"transaction_id": id,
	})

	return Result{
		Success: true,
		Message: "Transaksi berhasil dihapus",
		Details: map[string]any{"transaction_id": id},
	}
}
