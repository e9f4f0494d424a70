// Package executor performs the financial mutations behind chat
// actions. Every action validates its arguments, asks for
// clarification instead of guessing, and runs its writes inside a
// storage transaction.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/interpret"
	"github.com/pramudya/arus/internal/service"
)

// Result is the outcome of one action. Code is machine-readable;
// Message and AskUser are shown to the user. A Result with
// RequiresConfirmation set committed nothing and expects the action to
// be re-submitted with confirmed=true.
type Result struct {
	Details              map[string]any
	Message              string
	Code                 string
	AskUser              string
	Success              bool
	RequiresConfirmation bool
}

// Result codes.
const (
	CodeUnknownAction       = "UNKNOWN_ACTION"
	CodeExecutionError      = "EXECUTION_ERROR"
	CodeMissingAmount       = "MISSING_AMOUNT"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeAmountTooLarge      = "AMOUNT_TOO_LARGE"
	CodeMissingCategory     = "MISSING_CATEGORY"
	CodeInvalidCategory     = "INVALID_CATEGORY"
	CodeInvalidAccount      = "INVALID_ACCOUNT"
	CodeInvalidDate         = "INVALID_DATE"
	CodeMissingID           = "MISSING_ID"
	CodeNotFound            = "TRANSACTION_NOT_FOUND"
	CodeNoUpdates           = "NO_UPDATES"
	CodeDuplicate           = "DUPLICATE_TRANSACTION"
	CodeLargeAmount         = "LARGE_AMOUNT"
	CodeConfirmField        = "CONFIRM_FIELD"
	CodeMissingFromAccount  = "MISSING_FROM_ACCOUNT"
	CodeMissingToAccount    = "MISSING_TO_ACCOUNT"
	CodeSameAccount         = "SAME_ACCOUNT"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeMissingName         = "MISSING_NAME"
	CodeNameTooLong         = "NAME_TOO_LONG"
	CodeDuplicateGoal       = "DUPLICATE_GOAL"
	CodeGoalNotFound        = "GOAL_NOT_FOUND"
)

// Executor validates and executes actions against storage.
type Executor struct {
	store          service.Storage
	now            func() time.Time
	largeThreshold float64
	dedupWindow    time.Duration
}

// Option tweaks executor behavior, mainly for tests.
type Option func(*Executor)

// WithDedupWindow overrides the duplicate-submission window.
func WithDedupWindow(window time.Duration) Option {
	return func(e *Executor) { e.dedupWindow = window }
}

// WithLargeThreshold overrides the amount above which an explicit
// confirmation is required.
func WithLargeThreshold(threshold float64) Option {
	return func(e *Executor) { e.largeThreshold = threshold }
}

// New creates an executor backed by store.
func New(store service.Storage, opts ...Option) *Executor {
	e := &Executor{
		store:          store,
		now:            time.Now,
		largeThreshold: interpret.LargeAmountThreshold,
		dedupWindow:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute dispatches an action by name. Validation and business-rule
// failures come back as structured Results; only the storage context is
// ever able to produce an error, and even that is folded into a generic
// Result so callers have a single shape to handle.
func (e *Executor) Execute(ctx context.Context, userID int64, action string, args map[string]any) Result {
	common.LogInfo("action started", common.Fields{
		"user_id": userID,
		"action":  action,
	})

	switch action {
	case "add_transaction", "record_expense", "record_income", "add_expense", "add_income":
		return e.addTransaction(ctx, userID, action, args)
	case "update_transaction":
		return e.updateTransaction(ctx, userID, args)
	case "delete_transaction":
		return e.deleteTransaction(ctx, userID, args)
	case "transfer_funds":
		return e.transferFunds(ctx, userID, args)
	case "create_savings_goal":
		return e.createGoal(ctx, userID, args)
	case "update_savings_goal":
		return e.updateGoal(ctx, userID, args)
	case "transfer_to_savings":
		return e.transferToSavings(ctx, userID, args)
	default:
		return Result{
			Message: fmt.Sprintf("Aksi '%s' tidak dikenal", action),
			Code:    CodeUnknownAction,
		}
	}
}

// parseDay parses a normalized YYYY-MM-DD value.
func (e *Executor) parseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, e.now().Location())
}

// executionError logs the underlying cause and returns a generic
// failure that leaks nothing to the user.
func executionError(err error, action string, fields common.Fields) Result {
	common.LogError(err, "action execution error", fields)
	return Result{
		Message: fmt.Sprintf("Terjadi kesalahan saat %s. Coba lagi ya.", action),
		Code:    CodeExecutionError,
	}
}

// confirmed reports whether the caller already approved this action.
func confirmed(args map[string]any) bool {
	v, ok := args["confirmed"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// stringArg fetches a trimmed string argument. ok is false when the key
// is absent entirely, which is how conditional defaults distinguish
// "never mentioned" from "mentioned but empty".
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return strings.TrimSpace(s), true
}

// amountArg parses an amount argument that may arrive as a number or as
// text like "50rb". The second return distinguishes absent from
// unparseable.
func amountArg(args map[string]any, key string) (value float64, present, ok bool) {
	v, exists := args[key]
	if !exists || v == nil {
		return 0, false, false
	}
	switch n := v.(type) {
	case float64:
		return n, true, n > 0
	case int:
		return float64(n), true, n > 0
	case int64:
		return float64(n), true, n > 0
	case string:
		parsed, parseOK := interpret.ParseAmount(n)
		return parsed, true, parseOK
	default:
		return 0, true, false
	}
}

// idArg fetches a positive integer ID that may arrive as any numeric
// type or a digit string.
func idArg(args map[string]any, key string) (int64, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, n > 0
	case int:
		return int64(n), n > 0
	case float64:
		return int64(n), n > 0 && n == float64(int64(n))
	case string:
		var id int64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &id); err != nil {
			return 0, false
		}
		return id, id > 0
	default:
		return 0, false
	}
}

// formatRupiah renders an amount with Indonesian thousands separators.
func formatRupiah(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}
