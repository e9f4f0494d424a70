package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pramudya/arus/internal/interpret"
)

// Prompter handles conversational input and output for the chat loop.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter reading from reader and writing to writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Say writes an assistant reply to the user.
func (p *Prompter) Say(message string) error {
	if _, err := fmt.Fprintln(p.writer, FormatAssistant(message)); err != nil {
		return fmt.Errorf("failed to write assistant message: %w", err)
	}
	return nil
}

// Ask prompts the user and reads a single line of input.
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

// Confirm asks a yes/no question and keeps asking until the answer is
// recognizably yes or no.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	for {
		answer, err := p.Ask(ctx, message+" (ya/tidak)")
		if err != nil {
			return false, err
		}

		switch {
		case interpret.IsYes(answer):
			return true, nil
		case interpret.IsNo(answer):
			return false, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatWarning("Mohon jawab dengan 'ya' atau 'tidak'.")); err != nil {
			return false, fmt.Errorf("failed to write retry prompt: %w", err)
		}
	}
}
