package intent

import "github.com/pramudya/arus/internal/model"

// Exemplar is a labeled example message used for semantic matching.
type Exemplar struct {
	Text     string
	Category model.IntentCategory
	Type     model.IntentType
}

// exemplars holds the labeled examples each incoming message is compared
// against. Mixed Indonesian and English, matching real user input.
var exemplars = buildExemplars(map[model.IntentCategory]map[model.IntentType][]string{
	model.IntentGeneral: {
		model.IntentTypeEducation: {
			"apa itu investasi?",
			"jelaskan tentang budgeting",
			"bagaimana cara menabung?",
			"tips mengatur keuangan",
			"strategi investasi untuk pemula",
			"what is compound interest?",
			"explain financial planning",
			"how to save money effectively",
		},
		model.IntentTypeGreeting: {
			"halo",
			"hai, apa kabar?",
			"hello there",
			"good morning",
			"selamat pagi",
			"hi, how are you?",
		},
		model.IntentTypeHelp: {
			"bantuan",
			"apa yang bisa kamu lakukan?",
			"fitur apa saja yang tersedia?",
			"help me",
			"what can you do?",
			"show me features",
		},
	},
	model.IntentContextData: {
		model.IntentTypeSummary: {
			"berapa total pengeluaran bulan ini?",
			"total pemasukan saya",
			"summary keuangan saya",
			"what is my balance?",
			"berapa saldo saya sekarang?",
			"show me financial overview",
			"laporan keuangan",
		},
		model.IntentTypeReport: {
			"laporan pengeluaran minggu ini",
			"analisis trend keuangan saya",
			"show spending trends",
			"perbandingan bulan ini vs bulan lalu",
			"report my expenses",
		},
		model.IntentTypeRetrieve: {
			"lihat transaksi terakhir",
			"tampilkan semua pengeluaran",
			"show my transactions",
			"cek saldo rekening",
			"daftar semua income saya",
		},
	},
	model.IntentInteractionData: {
		model.IntentTypeRecord: {
			"catat pengeluaran 50000 untuk makan",
			"saya habiskan 100rb untuk transport",
			"tambah pemasukan 5 juta dari gaji",
			"record expense Rp 75000 for groceries",
			"input income from freelance",
			"saya dapat uang 200rb dari bonus",
		},
		model.IntentTypeEdit: {
			"ubah transaksi terakhir",
			"edit pengeluaran kemarin",
			"update amount to 150000",
			"ganti kategori ke entertainment",
			"perbaiki transaksi salah",
		},
		model.IntentTypeDelete: {
			"hapus transaksi terakhir",
			"delete the expense I just added",
			"buang record yang salah",
			"remove transaction",
		},
		model.IntentTypeTransfer: {
			"transfer 500rb dari cash ke bank",
			"pindahkan uang dari saving ke wallet",
			"move funds from account A to B",
		},
		model.IntentTypeGoal: {
			"buat target menabung 10 juta",
			"set saving goal for vacation",
			"tujuan keuangan untuk beli laptop",
			"create accumulation goal",
		},
	},
})

func buildExemplars(examples map[model.IntentCategory]map[model.IntentType][]string) []Exemplar {
	var out []Exemplar
	for category, types := range examples {
		for intentType, texts := range types {
			for _, text := range texts {
				out = append(out, Exemplar{
					Text:     text,
					Category: category,
					Type:     intentType,
				})
			}
		}
	}
	return out
}

// Exemplars returns the full exemplar set.
func Exemplars() []Exemplar {
	return exemplars
}
