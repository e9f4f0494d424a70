package interpret

import (
	"fmt"
	"strings"

	"github.com/pramudya/arus/internal/model"
)

// categoryKeywords maps category names to the description words that
// indicate them.
var categoryKeywords = map[string][]string{
	"Makan": {
		"makan", "makanan", "nasi", "ayam", "bakso", "mie", "sate",
		"gofood", "grabfood", "shopeefood", "restoran", "warung",
		"kopi", "cafe", "snack", "jajan", "sarapan", "lunch", "dinner",
	},
	"Transport": {
		"gojek", "grab", "ojek", "bensin", "pertamax", "pertalite",
		"parkir", "tol", "busway", "transjakarta", "kereta", "krl",
		"mrt", "taxi", "taksi", "angkot", "travel",
	},
	"Belanja": {
		"belanja", "shopee", "tokopedia", "lazada", "baju", "celana",
		"sepatu", "tas", "elektronik", "indomaret", "alfamart",
		"supermarket", "mall",
	},
	"Hiburan": {
		"nonton", "bioskop", "netflix", "spotify", "game", "steam",
		"konser", "karaoke", "liburan", "wisata", "hotel",
	},
	"Kesehatan": {
		"dokter", "obat", "apotek", "rumah sakit", "klinik", "vitamin",
		"bpjs", "gym", "fitness",
	},
	"Utilitas": {
		"listrik", "pln", "air", "pdam", "internet", "wifi", "indihome",
		"pulsa", "token", "gas", "iuran", "sewa", "kontrakan", "kos",
	},
	"Pendidikan": {
		"sekolah", "kuliah", "kursus", "buku", "les", "spp", "ukt",
		"seminar", "pelatihan",
	},
	"Gaji": {
		"gaji", "salary", "payroll", "thr", "bonus", "honor",
	},
	"Investment": {
		"dividen", "bunga", "saham", "reksadana", "obligasi", "deposito",
		"crypto", "profit",
	},
}

// Suggestion is a category guess derived from a description.
type Suggestion struct {
	Category   string
	Message    string
	Method     string
	Confidence float64
}

// HistoryEntry is an aggregated past transaction used for history-based
// category suggestions.
type HistoryEntry struct {
	Category    string
	Description string
	Count       int
}

// SuggestCategory guesses a category for a description, preferring the
// user's own history over the static keyword map. Returns nil when
// nothing clears the confidence thresholds.
func SuggestCategory(description string, txnType model.TransactionType, history []HistoryEntry) *Suggestion {
	if s := suggestFromHistory(description, txnType, history); s != nil {
		return s
	}
	return suggestFromKeywords(description, txnType)
}

func suggestFromKeywords(description string, txnType model.TransactionType) *Suggestion {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return nil
	}
	words := strings.Fields(desc)

	valid := make(map[string]bool)
	for _, name := range model.CategoriesFor(txnType) {
		valid[name] = true
	}

	var bestCategory string
	var bestScore float64
	for category, keywords := range categoryKeywords {
		if !valid[category] {
			continue
		}
		var score float64
		for _, kw := range keywords {
			if containsWord(words, kw) {
				score += 1.0
			} else if strings.Contains(desc, kw) {
				score += 0.5
			}
		}
		normalized := min(score/float64(len(keywords))*10, 1.0)
		if normalized > bestScore {
			bestScore = normalized
			bestCategory = category
		}
	}

	if bestScore <= 0.3 {
		return nil
	}
	return &Suggestion{
		Category:   bestCategory,
		Confidence: bestScore,
		Method:     "keyword",
		Message:    suggestionMessage(bestCategory, bestScore),
	}
}

func suggestFromHistory(description string, txnType model.TransactionType, history []HistoryEntry) *Suggestion {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" || len(history) == 0 {
		return nil
	}
	words := strings.Fields(desc)

	valid := make(map[string]bool)
	for _, name := range model.CategoriesFor(txnType) {
		valid[name] = true
	}

	var bestCategory string
	var bestScore float64
	for _, entry := range history {
		if !valid[entry.Category] {
			continue
		}
		sim := wordOverlap(words, strings.Fields(strings.ToLower(entry.Description)))
		freqWeight := 0.7 + 0.3*min(float64(entry.Count)/10, 1.0)
		score := sim * freqWeight
		if score > bestScore {
			bestScore = score
			bestCategory = entry.Category
		}
	}

	if bestScore <= 0.4 {
		return nil
	}
	return &Suggestion{
		Category:   bestCategory,
		Confidence: bestScore,
		Method:     "history",
		Message:    suggestionMessage(bestCategory, bestScore),
	}
}

func suggestionMessage(category string, confidence float64) string {
	switch {
	case confidence > 0.8:
		return fmt.Sprintf("Kategori: **%s**", category)
	case confidence > 0.6:
		return fmt.Sprintf("Sepertinya kategori **%s**, benar?", category)
	default:
		return fmt.Sprintf("Mungkin kategori **%s**?", category)
	}
}

func containsWord(words []string, keyword string) bool {
	for _, w := range words {
		if w == keyword {
			return true
		}
	}
	return false
}

// wordOverlap is the fraction of words the two descriptions share,
// relative to the smaller one.
func wordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	shared := 0
	for _, w := range b {
		if set[w] {
			shared++
		}
	}
	return float64(shared) / float64(min(len(a), len(b)))
}
