package executor

import (
	"context"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/interpret"
	"github.com/pramudya/arus/internal/model"
)

// transferFunds moves money between accounts as a pair of signed
// transfer rows written in one transaction: a debit on the source and a
// matching credit on the destination.
func (e *Executor) transferFunds(ctx context.Context, userID int64, args map[string]any) Result {
	amount, present, ok := amountArg(args, "amount")
	if !present {
		return Result{
			Message: "Jumlah transfer wajib diisi",
			Code:    CodeMissingAmount,
			AskUser: "Mohon sebutkan jumlah yang akan ditransfer",
		}
	}
	if !ok {
		return Result{
			Message: "Jumlah transfer tidak dikenali",
			Code:    CodeInvalidAmount,
			AskUser: "Mohon sebutkan jumlah yang akan ditransfer",
		}
	}
	if amount > interpret.MaxAmount {
		return Result{
			Message: "Jumlah terlalu besar (maksimum Rp 100 miliar)",
			Code:    CodeAmountTooLarge,
		}
	}

	isConfirmed := confirmed(args)

	rawFrom, mentioned := stringArg(args, "from_account")
	if !mentioned || rawFrom == "" {
		return Result{
			Message: "Akun sumber wajib diisi",
			Code:    CodeMissingFromAccount,
			AskUser: "Transfer dari akun mana? (misal: Cash, BCA)",
		}
	}
	from, fail := resolveAccount(rawFrom, isConfirmed)
	if fail != nil {
		return *fail
	}

	rawTo, mentioned := stringArg(args, "to_account")
	if !mentioned || rawTo == "" {
		return Result{
			Message: "Akun tujuan wajib diisi",
			Code:    CodeMissingToAccount,
			AskUser: "Transfer ke akun mana? (misal: Gopay, OVO)",
		}
	}
	to, fail := resolveAccount(rawTo, isConfirmed)
	if fail != nil {
		return *fail
	}

	if from == to {
		return Result{
			Message: "Akun sumber dan tujuan tidak boleh sama",
			Code:    CodeSameAccount,
		}
	}

	date := e.now().Format("2006-01-02")
	if raw, mentioned := stringArg(args, "date"); mentioned {
		resolved, fail := e.resolveDate(raw, isConfirmed)
		if fail != nil {
			return *fail
		}
		date = resolved
	}

	if amount > e.largeThreshold && !isConfirmed {
		return Result{
			Message:              "Transfer " + formatRupiah(amount) + " cukup besar. Lanjutkan?",
			Code:                 CodeLargeAmount,
			RequiresConfirmation: true,
			Details:              map[string]any{"amount": amount},
		}
	}

	balance, err := e.store.GetBalance(ctx, userID, from)
	if err != nil {
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}
	if balance < amount {
		shortfall := amount - balance
		return Result{
			Message: "Saldo " + from + " tidak cukup. Saldo: " + formatRupiah(balance) +
				", transfer: " + formatRupiah(amount) + " (kurang " + formatRupiah(shortfall) + ")",
			Code: CodeInsufficientBalance,
			Details: map[string]any{
				"balance":   balance,
				"requested": amount,
				"shortfall": shortfall,
			},
		}
	}

	when, err := e.parseDay(date)
	if err != nil {
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}

	debit := &model.Transaction{
		UserID:      userID,
		Type:        model.TransactionTypeTransfer,
		Amount:      -amount,
		Category:    "Transfer",
		Description: "Transfer ke " + to,
		Account:     from,
		Date:        when,
	}
	credit := &model.Transaction{
		UserID:      userID,
		Type:        model.TransactionTypeTransfer,
		Amount:      amount,
		Category:    "Transfer",
		Description: "Transfer dari " + from,
		Account:     to,
		Date:        when,
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}
	if _, err := tx.CreateTransaction(ctx, debit); err != nil {
		tx.Rollback()
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}
	if _, err := tx.CreateTransaction(ctx, credit); err != nil {
		tx.Rollback()
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return executionError(err, "melakukan transfer", common.Fields{"user_id": userID})
	}

	common.LogInfo("transfer completed", common.Fields{
		"user_id":      userID,
		"from_account": from,
		"to_account":   to,
		"amount":       amount,
	})

	return Result{
		Success: true,
		Message: "Transfer " + formatRupiah(amount) + " dari " + from + " ke " + to + " berhasil",
		Details: map[string]any{
			"from_account": from,
			"to_account":   to,
			"amount":       amount,
			"date":         date,
		},
	}
}
