package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pramudya/arus/internal/conversation"
	"github.com/pramudya/arus/internal/model"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		input    string
		expected model.TransactionType
	}{
		{"catat pengeluaran 50rb", model.TransactionTypeExpense},
		{"beli kopi 25rb", model.TransactionTypeExpense},
		{"catat pemasukan gaji 5 juta", model.TransactionTypeIncome},
		{"terima uang dari klien", model.TransactionTypeIncome},
		{"dapat uang 100rb", model.TransactionTypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectType(tt.input))
		})
	}
}

func TestIsExit(t *testing.T) {
	assert.True(t, isExit("keluar"))
	assert.True(t, isExit("EXIT"))
	assert.True(t, isExit("quit"))
	assert.False(t, isExit("catat pengeluaran"))
}

func TestBuildArgs_EditFlow(t *testing.T) {
	s := &chatSession{}
	args := s.buildArgs(conversation.FlowEditTransaction, map[string]any{
		"transaction_id": int64(7),
		"field":          "amount",
		"new_value":      "75rb",
	})

	assert.Equal(t, int64(7), args["id"])
	assert.Equal(t, "75rb", args["amount"])
	assert.NotContains(t, args, "field")
	assert.NotContains(t, args, "new_value")
}

func TestBuildArgs_DeleteFlowIsPreConfirmed(t *testing.T) {
	s := &chatSession{}
	args := s.buildArgs(conversation.FlowDeleteTransaction, map[string]any{
		"transaction_id": int64(3),
	})

	assert.Equal(t, int64(3), args["id"])
	assert.Equal(t, true, args["confirmed"])
}

func TestBuildArgs_GoalDeadlineBecomesTargetDate(t *testing.T) {
	s := &chatSession{}
	args := s.buildArgs(conversation.FlowCreateGoal, map[string]any{
		"name":          "Liburan",
		"target_amount": 5000000.0,
		"deadline":      "2026-12-31",
	})

	assert.Equal(t, "2026-12-31", args["target_date"])
	assert.NotContains(t, args, "deadline")
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 50.000", formatRupiah(50000))
	assert.Equal(t, "Rp 1.500.000", formatRupiah(1500000))
	assert.Equal(t, "Rp 500", formatRupiah(500))
	assert.Equal(t, "-Rp 25.000", formatRupiah(-25000))
}
