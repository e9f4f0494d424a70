package model

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// IncomeCategories is the fixed set of valid income categories.
var IncomeCategories = []string{
	"Gaji",
	"Bonus",
	"Investment",
	"Freelance",
	"Gift",
	"Refund",
	"Lainnya",
}

// ExpenseCategories is the fixed set of valid expense categories.
var ExpenseCategories = []string{
	"Makan",
	"Transport",
	"Hiburan",
	"Belanja",
	"Kesehatan",
	"Investasi",
	"Utilitas",
	"Pendidikan",
	"Lainnya",
}

// SavingsCategory is the expense category used for goal contributions.
const SavingsCategory = "Tabungan"

// CategoriesFor returns the valid category names for a transaction type.
// Transfers have no user-facing categories.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case TransactionTypeIncome:
		return IncomeCategories
	case TransactionTypeExpense:
		return ExpenseCategories
	default:
		return nil
	}
}
