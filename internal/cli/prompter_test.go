package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Say(t *testing.T) {
	var output bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &output)

	require.NoError(t, p.Say("Transaksi berhasil dicatat"))
	assert.Contains(t, output.String(), "Transaksi berhasil dicatat")
}

func TestPrompter_Ask(t *testing.T) {
	var output bytes.Buffer
	p := NewPrompter(strings.NewReader("50rb\n"), &output)

	answer, err := p.Ask(context.Background(), "Berapa jumlahnya?")
	require.NoError(t, err)
	assert.Equal(t, "50rb", answer)
	assert.Contains(t, output.String(), "Berapa jumlahnya?")
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "indonesian yes", input: "ya\n", expected: true},
		{name: "indonesian no", input: "tidak\n", expected: false},
		{name: "english yes", input: "yes\n", expected: true},
		{name: "casual no", input: "nggak\n", expected: false},
		{name: "retries until recognized", input: "mungkin\nbetul\n", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &output)

			ok, err := p.Confirm(context.Background(), "Lanjutkan?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestPrompter_ConfirmRetryMessage(t *testing.T) {
	var output bytes.Buffer
	p := NewPrompter(strings.NewReader("entahlah\nya\n"), &output)

	ok, err := p.Confirm(context.Background(), "Hapus transaksi ini?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, output.String(), "Mohon jawab dengan 'ya' atau 'tidak'")
}

func TestPrompter_ConfirmCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Confirm(ctx, "Lanjutkan?")
	assert.Equal(t, ErrInputCancelled, err)
}
