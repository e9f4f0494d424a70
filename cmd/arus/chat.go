package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pramudya/arus/internal/cli"
	"github.com/pramudya/arus/internal/common"
	"github.com/pramudya/arus/internal/config"
	"github.com/pramudya/arus/internal/conversation"
	"github.com/pramudya/arus/internal/executor"
	"github.com/pramudya/arus/internal/interpret"
	"github.com/pramudya/arus/internal/model"
	"github.com/pramudya/arus/internal/service"
)

const helpText = `Yang bisa kubantu:
  • Catat pengeluaran atau pemasukan ("catat pengeluaran 50rb untuk makan")
  • Transfer antar akun ("transfer 100rb dari BCA ke Gopay")
  • Ubah atau hapus transaksi terakhir
  • Buat target tabungan ("buat target tabungan liburan 5 juta")
  • Lihat ringkasan bulan ini ("ringkasan bulan ini")
Ketik 'keluar' untuk berhenti.`

// flowActions maps a completed conversation flow to the executor action
// that carries it out.
var flowActions = map[string]string{
	conversation.FlowAddTransaction:    "add_transaction",
	conversation.FlowEditTransaction:   "update_transaction",
	conversation.FlowDeleteTransaction: "delete_transaction",
	conversation.FlowTransfer:          "transfer_funds",
	conversation.FlowCreateGoal:        "create_savings_goal",
}

// editableFields normalizes the user's answer to "which part do you want
// to change" onto executor argument names.
var editableFields = map[string]string{
	"jumlah":    "amount",
	"amount":    "amount",
	"kategori":  "category",
	"category":  "category",
	"akun":      "account",
	"account":   "account",
	"tanggal":   "date",
	"date":      "date",
	"deskripsi": "description",
	"catatan":   "description",
	"tipe":      "type",
	"jenis":     "type",
}

type chatSession struct {
	store      service.Storage
	classifier intentClassifier
	manager    *conversation.Manager
	exec       *executor.Executor
	prompter   *cli.Prompter
	sessionID  string
	userID     int64
}

// intentClassifier is the slice of the classifier the chat loop needs.
type intentClassifier interface {
	Classify(ctx context.Context, message string) model.Classification
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with the assistant",
		Long: `Open an interactive chat session. Messages are classified into
intents, missing details are collected one question at a time, and
confirmed actions are executed against the local database.`,
		RunE: runChat,
	}
	cmd.Flags().Int64("user", 1, "user ID to record transactions under")
	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")

	store, err := initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	classifier, err := initClassifier()
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	s := &chatSession{
		store:      store,
		classifier: classifier,
		manager:    conversation.NewManager(store),
		exec:       executor.New(store, config.LoadExecutorOptions()...),
		prompter:   cli.NewPrompter(os.Stdin, os.Stdout),
		sessionID:  uuid.New().String(),
		userID:     userID,
	}

	fmt.Println(cli.FormatTitle("arus"))
	_ = s.prompter.Say("Halo! Aku asisten keuanganmu. Ketik 'bantuan' untuk melihat yang bisa kubantu.")

	for {
		input, err := s.prompter.Ask(ctx, "Anda")
		if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if isExit(input) {
			_ = s.prompter.Say("Sampai jumpa! 👋")
			return nil
		}

		if err := s.handle(ctx, input); err != nil {
			if errors.Is(err, cli.ErrInputCancelled) {
				return nil
			}
			common.LogError(err, "handling chat message", common.Fields{"user_id": s.userID})
			_ = s.prompter.Say("Terjadi kesalahan. Coba lagi ya.")
		}
	}
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "keluar", "exit", "quit", "selesai", "bye":
		return true
	}
	return false
}

// handle routes a message either into the active slot-filling flow or
// through intent classification when no flow is in progress.
func (s *chatSession) handle(ctx context.Context, input string) error {
	session, err := s.manager.Active(ctx, s.userID, s.sessionID)
	switch {
	case err == nil:
		return s.continueFlow(ctx, session, input)
	case errors.Is(err, common.ErrNotFound):
		return s.startFlow(ctx, input)
	default:
		return err
	}
}

func (s *chatSession) continueFlow(ctx context.Context, session *model.Session, input string) error {
	if session.State == conversation.StateConfirming {
		switch {
		case interpret.IsYes(input):
			turn, err := s.manager.Confirm(ctx, s.userID, s.sessionID, true)
			if err != nil {
				return err
			}
			return s.execute(ctx, turn.Flow, turn.Data)
		case interpret.IsNo(input):
			turn, err := s.manager.Confirm(ctx, s.userID, s.sessionID, false)
			if err != nil {
				return err
			}
			return s.prompter.Say(turn.Prompt)
		default:
			return s.prompter.Say("Mohon jawab dengan 'ya' atau 'tidak'.")
		}
	}

	field, ok := conversation.FieldFor(session.Flow, session.State)
	if !ok {
		// Unknown state; drop the conversation and reclassify.
		if err := s.manager.Clear(ctx, s.userID, s.sessionID); err != nil {
			return err
		}
		return s.startFlow(ctx, input)
	}

	value, reply, ok := s.interpretField(ctx, field, input, session.Data)
	if !ok {
		return s.prompter.Say(reply)
	}

	turn, err := s.manager.UpdateField(ctx, s.userID, s.sessionID, field, value)
	if err != nil {
		return err
	}
	return s.prompter.Say(turn.Prompt)
}

// interpretField turns raw user input into a typed field value, asking
// the user to confirm fuzzy interpretations before accepting them.
func (s *chatSession) interpretField(ctx context.Context, field, input string, data map[string]any) (any, string, bool) {
	switch field {
	case "amount", "target_amount":
		r := interpret.Amount(input)
		if r.Confidence == interpret.NoMatch {
			return nil, r.Explanation, false
		}
		return r.Amount, "", true

	case "account", "from_account", "to_account":
		return s.confirmInterpretation(ctx, interpret.Account(input))

	case "category":
		txnType := model.TransactionTypeExpense
		if raw, ok := data["type"].(string); ok && raw == string(model.TransactionTypeIncome) {
			txnType = model.TransactionTypeIncome
		}
		return s.confirmInterpretation(ctx, interpret.Category(input, txnType))

	case "deadline":
		return s.confirmInterpretation(ctx, interpret.Date(input, time.Now()))

	case "field":
		normalized, ok := editableFields[strings.ToLower(strings.TrimSpace(input))]
		if !ok {
			return nil, "Bagian itu tidak kukenal. Pilih: jumlah, kategori, akun, tanggal, atau deskripsi.", false
		}
		return normalized, "", true

	default:
		return strings.TrimSpace(input), "", true
	}
}

func (s *chatSession) confirmInterpretation(ctx context.Context, r interpret.Result) (any, string, bool) {
	if r.Confidence == interpret.NoMatch {
		return nil, r.Explanation, false
	}
	if r.NeedsConfirmation {
		ok, err := s.prompter.Confirm(ctx, r.ConfirmationMessage())
		if err != nil || !ok {
			return nil, "Oke, coba sebutkan lagi.", false
		}
	}
	return r.Value, "", true
}

// execute hands a confirmed flow to the action executor, re-running once
// with explicit confirmation when a safety gate fires.
func (s *chatSession) execute(ctx context.Context, flow string, data map[string]any) error {
	action, ok := flowActions[flow]
	if !ok {
		return fmt.Errorf("flow %q has no action", flow)
	}
	args := s.buildArgs(flow, data)

	result := s.exec.Execute(ctx, s.userID, action, args)
	for attempt := 0; attempt < 3; attempt++ {
		if !result.RequiresConfirmation {
			break
		}
		confirmed, err := s.prompter.Confirm(ctx, result.Message)
		if err != nil {
			return err
		}
		if !confirmed {
			_ = s.manager.Clear(ctx, s.userID, s.sessionID)
			return s.prompter.Say("Aksi dibatalkan")
		}
		args["confirmed"] = true
		result = s.exec.Execute(ctx, s.userID, action, args)
	}

	if err := s.manager.Clear(ctx, s.userID, s.sessionID); err != nil {
		common.LogError(err, "clearing conversation", common.Fields{"user_id": s.userID})
	}

	if result.AskUser != "" {
		return s.prompter.Say(result.AskUser)
	}
	return s.prompter.Say(result.Message)
}

// buildArgs translates collected conversation data into executor args.
func (s *chatSession) buildArgs(flow string, data map[string]any) map[string]any {
	args := map[string]any{}
	for k, v := range data {
		args[k] = v
	}

	switch flow {
	case conversation.FlowEditTransaction:
		if field, ok := args["field"].(string); ok {
			args[field] = args["new_value"]
			delete(args, "field")
			delete(args, "new_value")
		}
		args["id"] = args["transaction_id"]

	case conversation.FlowDeleteTransaction:
		args["id"] = args["transaction_id"]
		// The flow's own CONFIRMING step already warned about deletion.
		args["confirmed"] = true

	case conversation.FlowCreateGoal:
		if deadline, ok := args["deadline"]; ok {
			args["target_date"] = deadline
			delete(args, "deadline")
		}
	}

	return args
}

// startFlow classifies a fresh message and either starts a slot-filling
// flow, answers a query, or replies conversationally.
func (s *chatSession) startFlow(ctx context.Context, input string) error {
	classification := s.classifier.Classify(ctx, input)

	common.LogDebug("message classified", common.Fields{
		"user_id":    s.userID,
		"category":   classification.Category,
		"intent":     classification.Type,
		"confidence": classification.Confidence,
	})

	switch classification.Type {
	case model.IntentTypeRecord:
		seed := map[string]any{"type": string(detectType(input))}
		if amount, ok := interpret.ExtractAmount(input); ok {
			seed["amount"] = amount
		}
		return s.begin(ctx, conversation.FlowAddTransaction, seed)

	case model.IntentTypeTransfer:
		seed := map[string]any{}
		if amount, ok := interpret.ExtractAmount(input); ok {
			seed["amount"] = amount
		}
		return s.begin(ctx, conversation.FlowTransfer, seed)

	case model.IntentTypeEdit:
		return s.beginOnLastTransaction(ctx, conversation.FlowEditTransaction)

	case model.IntentTypeDelete:
		return s.beginOnLastTransaction(ctx, conversation.FlowDeleteTransaction)

	case model.IntentTypeGoal:
		return s.begin(ctx, conversation.FlowCreateGoal, nil)

	case model.IntentTypeSummary, model.IntentTypeReport, model.IntentTypeRetrieve:
		return s.showSummary(ctx)

	case model.IntentTypeGreeting:
		return s.prompter.Say("Halo! Ada yang bisa kubantu soal keuanganmu?")

	case model.IntentTypeHelp:
		return s.prompter.Say(helpText)

	case model.IntentTypeEducation:
		return s.prompter.Say("Tips: catat setiap pengeluaran sekecil apa pun, lalu cek ringkasan bulananmu dengan 'ringkasan bulan ini'.")

	default:
		return s.prompter.Say("Maaf, aku belum paham maksudmu. Ketik 'bantuan' untuk contoh perintah.")
	}
}

func (s *chatSession) begin(ctx context.Context, flow string, seed map[string]any) error {
	turn, err := s.manager.StartWith(ctx, s.userID, s.sessionID, flow, seed)
	if err != nil {
		return err
	}
	return s.prompter.Say(turn.Prompt)
}

// beginOnLastTransaction targets edit and delete flows at the most
// recent transaction.
func (s *chatSession) beginOnLastTransaction(ctx context.Context, flow string) error {
	last, err := s.store.GetLastTransaction(ctx, s.userID)
	if errors.Is(err, common.ErrNotFound) {
		return s.prompter.Say("Belum ada transaksi yang tercatat.")
	}
	if err != nil {
		return err
	}

	_ = s.prompter.Say(fmt.Sprintf("Transaksi terakhir: %s %s untuk %s dari %s (%s)",
		last.Type, formatRupiah(last.Amount), last.Category, last.Account,
		last.Date.Format("2006-01-02")))

	return s.begin(ctx, flow, map[string]any{"transaction_id": last.ID})
}

// detectType guesses the transaction direction from the message wording.
func detectType(input string) model.TransactionType {
	lowered := strings.ToLower(input)
	for _, word := range []string{"pemasukan", "pendapatan", "gaji", "terima", "income", "dapat uang"} {
		if strings.Contains(lowered, word) {
			return model.TransactionTypeIncome
		}
	}
	return model.TransactionTypeExpense
}
