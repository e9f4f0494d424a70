package interpret

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pramudya/arus/internal/model"
)

// Category interprets user input as a category valid for the given
// transaction type.
func Category(input string, txnType model.TransactionType) Result {
	res := Result{FieldType: "category", Original: input}

	valid := categoriesForType(txnType)
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		res.Explanation = fmt.Sprintf("Kategori tidak diberikan. Pilihan: %s", strings.Join(valid, ", "))
		return res
	}

	for _, name := range valid {
		if strings.ToLower(name) == normalized {
			res.Value = name
			res.Confidence = Exact
			return res
		}
	}

	type candidate struct {
		name  string
		ratio float64
	}
	var ranked []candidate
	for _, name := range valid {
		r := similarity(normalized, strings.ToLower(name))
		if r >= thresholdLow {
			ranked = append(ranked, candidate{name, r})
		}
	}

	if len(ranked) == 0 {
		res.Explanation = fmt.Sprintf(
			"Kategori '%s' tidak dikenali. Pilihan: %s",
			input, strings.Join(valid, ", "))
		return res
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ratio != ranked[j].ratio {
			return ranked[i].ratio > ranked[j].ratio
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	res.Value = ranked[0].name
	res.Confidence = confidenceLevel(ranked[0].ratio)
	res.NeedsConfirmation = res.Confidence != Exact
	for _, c := range ranked[1:] {
		res.Alternatives = append(res.Alternatives, c.name)
	}
	return res
}

// categoriesForType returns category names for a transaction type.
// Expense includes the savings category used by goal contributions.
func categoriesForType(t model.TransactionType) []string {
	names := model.CategoriesFor(t)
	if t == model.TransactionTypeExpense {
		names = append(append([]string{}, names...), model.SavingsCategory)
	}
	return names
}
