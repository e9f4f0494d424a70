package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/model"
)

const maxGoalNameLen = 200

func (e *Executor) createGoal(ctx context.Context, userID int64, args map[string]any) Result {
	name, mentioned := stringArg(args, "name")
	if !mentioned || name == "" {
		return Result{
			Message: "Nama target tabungan wajib diisi",
			Code:    CodeMissingName,
			AskUser: "Mohon sebutkan nama target tabungan (contoh: Liburan Bali, Dana Darurat, Laptop Baru)",
		}
	}
	if len(name) > maxGoalNameLen {
		return Result{
			Message: "Nama target terlalu panjang",
			Code:    CodeNameTooLong,
		}
	}

	target, present, ok := amountArg(args, "target_amount")
	if !present || !ok {
		return Result{
			Message: "Target jumlah wajib diisi dan harus positif",
			Code:    CodeMissingAmount,
			AskUser: "Mohon sebutkan target jumlah tabungan dalam rupiah",
		}
	}

	var deadline *time.Time
	if raw, mentioned := stringArg(args, "target_date"); mentioned && raw != "" {
		resolved, fail := e.resolveDate(raw, confirmed(args))
		if fail != nil {
			return *fail
		}
		when, err := e.parseDay(resolved)
		if err != nil {
			return executionError(err, "membuat target tabungan", common.Fields{"user_id": userID})
		}
		deadline = &when
	}

	goal := &model.Goal{
		UserID:       userID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
	}
	if _, err := e.store.CreateGoal(ctx, goal); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return Result{
				Message: fmt.Sprintf("Target tabungan '%s' sudah ada", name),
				Code:    CodeDuplicateGoal,
			}
		}
		return executionError(err, "membuat target tabungan", common.Fields{"user_id": userID})
	}

	common.LogInfo("savings goal created", common.Fields{
		"user_id":       userID,
		"goal_id":       goal.ID,
		"target_amount": target,
	})

	return Result{
		Success: true,
		Message: fmt.Sprintf("Target tabungan '%s' berhasil dibuat (Target: %s)", name, formatRupiah(target)),
		Details: map[string]any{"goal_id": goal.ID},
	}
}

// findGoal resolves a goal from an id or name argument.
func (e *Executor) findGoal(ctx context.Context, userID int64, args map[string]any) (*model.Goal, *Result) {
	if id, ok := idArg(args, "goal_id"); ok {
		goal, err := e.store.GetGoalByID(ctx, userID, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil, &Result{
				Message: "Target tabungan tidak ditemukan",
				Code:    CodeGoalNotFound,
			}
		}
		if err != nil {
			r := executionError(err, "mencari target tabungan", common.Fields{"user_id": userID})
			return nil, &r
		}
		return goal, nil
	}

	name, _ := stringArg(args, "goal_name")
	if name == "" {
		name, _ = stringArg(args, "name")
	}
	if name == "" {
		return nil, &Result{
			Message: "Target tabungan mana?",
			Code:    CodeMissingName,
			AskUser: "Mohon sebutkan nama target tabungan yang dimaksud." + e.goalOptions(ctx, userID),
		}
	}

	goal, err := e.store.GetGoalByName(ctx, userID, name)
	if errors.Is(err, common.ErrNotFound) {
		return nil, &Result{
			Message: fmt.Sprintf("Target tabungan '%s' tidak ditemukan.%s", name, e.goalOptions(ctx, userID)),
			Code:    CodeGoalNotFound,
		}
	}
	if err != nil {
		r := executionError(err, "mencari target tabungan", common.Fields{"user_id": userID})
		return nil, &r
	}
	return goal, nil
}

// goalOptions lists the user's goals so a failed lookup can offer the
// valid choices. Empty when the user has no goals or the list fails.
func (e *Executor) goalOptions(ctx context.Context, userID int64) string {
	goals, err := e.store.ListGoals(ctx, userID)
	if err != nil || len(goals) == 0 {
		return ""
	}
	names := make([]string, len(goals))
	for i, g := range goals {
		names[i] = g.Name
	}
	return " Target yang ada: " + strings.Join(names, ", ")
}

func (e *Executor) updateGoal(ctx context.Context, userID int64, args map[string]any) Result {
	goal, fail := e.findGoal(ctx, userID, args)
	if fail != nil {
		return *fail
	}

	updated := false

	if newName, mentioned := stringArg(args, "new_name"); mentioned && newName != "" {
		if len(newName) > maxGoalNameLen {
			return Result{
				Message: "Nama target terlalu panjang",
				Code:    CodeNameTooLong,
			}
		}
		goal.Name = newName
		updated = true
	}

	if target, present, ok := amountArg(args, "target_amount"); present {
		if !ok {
			return Result{
				Message: "Target jumlah tidak valid",
				Code:    CodeInvalidAmount,
			}
		}
		goal.TargetAmount = target
		updated = true
	}

	if raw, mentioned := stringArg(args, "target_date"); mentioned && raw != "" {
		resolved, fail := e.resolveDate(raw, confirmed(args))
		if fail != nil {
			return *fail
		}
		when, err := e.parseDay(resolved)
		if err != nil {
			return executionError(err, "memperbarui target tabungan", common.Fields{"user_id": userID})
		}
		goal.Deadline = &when
		updated = true
	}

	if !updated {
		return Result{
			Message: "Tidak ada field yang diperbarui",
			Code:    CodeNoUpdates,
		}
	}

	if err := e.store.UpdateGoal(ctx, goal); err != nil {
		return executionError(err, "memperbarui target tabungan", common.Fields{"user_id": userID})
	}

	common.LogInfo("savings goal updated", common.Fields{
		"user_id": userID,
		"goal_id": goal.ID,
	})

	return Result{
		Success: true,
		Message: fmt.Sprintf("Target tabungan '%s' berhasil diperbarui", goal.Name),
		Details: map[string]any{"goal_id": goal.ID},
	}
}

// transferToSavings records a contribution to a goal: an expense row on
// the source account plus the goal's accumulated amount, as one atomic
// unit.
func (e *Executor) transferToSavings(ctx context.Context, userID int64, args map[string]any) Result {
	goal, fail := e.findGoal(ctx, userID, args)
	if fail != nil {
		return *fail
	}

	amount, present, ok := amountArg(args, "amount")
	if !present {
		return Result{
			Message: "Jumlah tabungan wajib diisi",
			Code:    CodeMissingAmount,
			AskUser: "Berapa yang mau ditabung?",
		}
	}
	if !ok {
		return Result{
			Message: "Jumlah tabungan tidak dikenali",
			Code:    CodeInvalidAmount,
			AskUser: "Berapa yang mau ditabung?",
		}
	}

	isConfirmed := confirmed(args)

	account := model.AccountCash
	if raw, mentioned := stringArg(args, "from_account"); mentioned {
		resolved, fail := resolveAccount(raw, isConfirmed)
		if fail != nil {
			return *fail
		}
		account = resolved
	}

	if amount > e.largeThreshold && !isConfirmed {
		return Result{
			Message:              "Jumlah " + formatRupiah(amount) + " cukup besar. Lanjutkan?",
			Code:                 CodeLargeAmount,
			RequiresConfirmation: true,
			Details:              map[string]any{"amount": amount},
		}
	}

	balance, err := e.store.GetBalance(ctx, userID, account)
	if err != nil {
		return executionError(err, "menabung", common.Fields{"user_id": userID})
	}
	if balance < amount {
		shortfall := amount - balance
		return Result{
			Message: "Saldo " + account + " tidak cukup. Saldo: " + formatRupiah(balance) +
				" (kurang " + formatRupiah(shortfall) + ")",
			Code: CodeInsufficientBalance,
			Details: map[string]any{
				"balance":   balance,
				"requested": amount,
				"shortfall": shortfall,
			},
		}
	}

	txn := &model.Transaction{
		UserID:      userID,
		Type:        model.TransactionTypeExpense,
		Amount:      amount,
		Category:    model.SavingsCategory,
		Description: "Tabungan: " + goal.Name,
		Account:     account,
		Date:        e.now(),
	}

	goal.CurrentAmount += amount
	if goal.CurrentAmount >= goal.TargetAmount {
		goal.Status = model.GoalStatusCompleted
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return executionError(err, "menabung", common.Fields{"user_id": userID})
	}
	if _, err := tx.CreateTransaction(ctx, txn); err != nil {
		tx.Rollback()
		return executionError(err, "menabung", common.Fields{"user_id": userID})
	}
	if err := tx.UpdateGoal(ctx, goal); err != nil {
		tx.Rollback()
		return executionError(err, "menabung", common.Fields{"user_id": userID})
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return executionError(err, "menabung", common.Fields{"user_id": userID})
	}

	common.LogInfo("savings contribution recorded", common.Fields{
		"user_id": userID,
		"goal_id": goal.ID,
		"amount":  amount,
	})

	message := fmt.Sprintf("%s ditabung ke '%s'. Terkumpul %s dari %s (%.0f%%)",
		formatRupiah(amount), goal.Name,
		formatRupiah(goal.CurrentAmount), formatRupiah(goal.TargetAmount),
		goal.Progress()*100)
	if goal.Status == model.GoalStatusCompleted {
		message += ". Target tercapai!"
	} else {
		message += ". Kurang " + formatRupiah(goal.Remaining()) + " lagi"
	}

	return Result{
		Success: true,
		Message: message,
		Details: map[string]any{
			"goal_id":        goal.ID,
			"amount":         amount,
			"current_amount": goal.CurrentAmount,
		},
	}
}
