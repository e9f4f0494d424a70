package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pramudya/arus/internal/cli"
	"github.com/pramudya/arus/internal/service"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly income and expense summary",
		RunE:  runSummary,
	}
	cmd.Flags().Int64("user", 1, "user ID to summarize")
	cmd.Flags().Int("year", 0, "year to summarize (default: current)")
	cmd.Flags().Int("month", 0, "month to summarize, 1-12 (default: current)")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")

	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	summary, err := store.GetMonthlySummary(cmd.Context(), userID, year, time.Month(month))
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}

	title := fmt.Sprintf("Ringkasan %s %d", time.Month(month), year)
	fmt.Println(cli.RenderBox(title, renderSummary(summary)))
	return nil
}

// showSummary prints the current month's summary inside the chat loop.
func (s *chatSession) showSummary(ctx context.Context) error {
	now := time.Now()
	summary, err := s.store.GetMonthlySummary(ctx, s.userID, now.Year(), now.Month())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Ringkasan %s %d", now.Month(), now.Year())
	fmt.Println(cli.RenderBox(title, renderSummary(summary)))
	return nil
}

func renderSummary(summary *service.MonthlySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pemasukan:   %s\n", formatRupiah(summary.TotalIncome))
	fmt.Fprintf(&b, "Pengeluaran: %s\n", formatRupiah(summary.TotalExpense))
	fmt.Fprintf(&b, "Selisih:     %s\n", formatRupiah(summary.Net))

	if len(summary.ExpenseByCategory) > 0 {
		b.WriteString("\nPengeluaran per kategori:\n")
		for _, line := range categoryLines(summary.ExpenseByCategory) {
			b.WriteString(line + "\n")
		}
	}
	if len(summary.IncomeByCategory) > 0 {
		b.WriteString("\nPemasukan per kategori:\n")
		for _, line := range categoryLines(summary.IncomeByCategory) {
			b.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// categoryLines renders per-category rows, largest amount first.
func categoryLines(byCategory map[string]service.CategorySummary) []string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if byCategory[names[i]].Amount != byCategory[names[j]].Amount {
			return byCategory[names[i]].Amount > byCategory[names[j]].Amount
		}
		return names[i] < names[j]
	})

	lines := make([]string, 0, len(names))
	for _, name := range names {
		c := byCategory[name]
		lines = append(lines, fmt.Sprintf("  %-12s %s (%dx)", name, formatRupiah(c.Amount), c.Count))
	}
	return lines
}

// formatRupiah renders an amount with dot thousand separators, the way
// amounts are written in Indonesia.
func formatRupiah(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%.0f", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if negative {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
