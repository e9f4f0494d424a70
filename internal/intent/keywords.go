package intent

import (
	"sort"
	"strings"

	"github.com/pramudya/arus/internal/model"
)

// Keyword tables for the fallback classifier. Substring matching against
// the lowercased message.
var generalKeywords = map[model.IntentType][]string{
	model.IntentTypeEducation: {
		"apa itu", "jelaskan", "definisi", "bagaimana cara", "gimana cara",
		"tips", "strategi", "motivasi", "inspirasi", "pelajaran", "edukasi",
		"belajar", "understand", "explain", "definition", "how to", "strategy",
	},
	model.IntentTypeGreeting: {
		"halo", "hai", "hello", "hi", "pagi", "siang", "malam",
		"good morning", "good afternoon",
	},
	model.IntentTypeHelp: {
		"bantuan", "help", "support", "fitur apa saja", "apa yang bisa", "bisa apa",
	},
}

var contextDataKeywords = map[model.IntentType][]string{
	model.IntentTypeSummary: {
		"summary", "ringkasan", "total", "berapa", "berapa total",
		"total pengeluaran", "total pemasukan", "laporan", "report",
		"statistik", "stats", "overview",
	},
	model.IntentTypeReport: {
		"laporan", "report", "analisis", "analysis", "trends", "trend",
		"perbandingan", "comparison", "ringkasan",
	},
	model.IntentTypeRetrieve: {
		"lihat", "tampilkan", "show", "display", "cek", "check",
		"berapa saldo", "balance", "daftar", "list",
	},
}

var interactionDataKeywords = map[model.IntentType][]string{
	model.IntentTypeRecord: {
		"catat", "record", "tambah", "add", "input", "buat", "create",
		"pemasukan", "pengeluaran", "income", "expense", "saya habiskan",
		"saya dapat", "saya terima", "i spent", "spent", "paid", "bought",
		"received", "earned", "got",
	},
	model.IntentTypeEdit: {
		"ubah", "edit", "update", "ganti", "change", "perbaiki", "fix",
		"modify", "correct",
	},
	model.IntentTypeDelete: {
		"hapus", "delete", "remove", "buang", "clear", "cancel",
	},
	model.IntentTypeTransfer: {
		"transfer", "pindahkan", "move", "dari", "ke", "from", "to",
	},
	model.IntentTypeGoal: {
		"target", "goal", "tujuan", "saving", "menabung", "akumulasi",
		"accumulate", "save for", "saving for", "want to save",
	},
}

type keywordMatch struct {
	category   model.IntentCategory
	intentType model.IntentType
	confidence float64
	length     int
}

// classifyWithKeywords runs the keyword fallback over a lowercased message.
// The boolean is false when no keyword matched at all.
func classifyWithKeywords(query string) (model.Classification, bool) {
	var matches []keywordMatch

	collect := func(category model.IntentCategory, tables map[model.IntentType][]string) {
		for intentType, keywords := range tables {
			for _, keyword := range keywords {
				if !strings.Contains(query, keyword) {
					continue
				}
				confidence := keywordConfidence(query, keyword)
				// Longer multi-word keywords are more specific
				if len(strings.Fields(keyword)) > 1 {
					confidence += 0.1
				}
				matches = append(matches, keywordMatch{
					category:   category,
					intentType: intentType,
					confidence: confidence,
					length:     len(keyword),
				})
			}
		}
	}

	collect(model.IntentInteractionData, interactionDataKeywords)
	collect(model.IntentContextData, contextDataKeywords)
	collect(model.IntentGeneral, generalKeywords)

	if len(matches) == 0 {
		return model.Classification{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].confidence != matches[j].confidence {
			return matches[i].confidence > matches[j].confidence
		}
		return matches[i].length > matches[j].length
	})

	best := matches[0]
	return model.Classification{
		Category:   best.category,
		Type:       best.intentType,
		Confidence: min(1.0, best.confidence),
	}, true
}

// keywordConfidence scores a single keyword hit from the shape of the query.
func keywordConfidence(query, keyword string) float64 {
	confidence := 0.7

	if strings.HasPrefix(query, keyword) {
		confidence += 0.2
	}

	words := len(strings.Fields(query))
	if words > 15 {
		confidence -= 0.1
	}
	if words <= 5 {
		confidence += 0.1
	}

	return max(0.0, min(1.0, confidence))
}
