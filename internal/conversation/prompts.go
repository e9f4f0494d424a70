package conversation

import (
	"fmt"
	"regexp"
)

// statePrompts is the question asked at each state of each flow.
// Placeholders like {amount} are filled from collected data when
// available and left as-is otherwise.
var statePrompts = map[string]map[string]string{
	FlowAddTransaction: {
		"AWAITING_AMOUNT":   "Berapa jumlahnya? (misal: 50 ribu, 100k, 5 juta)",
		"AWAITING_CATEGORY": "Kategori apa? (misal: Makan, Transport, Hiburan, dsb)",
		"AWAITING_ACCOUNT":  "Dari akun mana? (misal: Cash, BCA, OVO, Gopay)",
		StateConfirming:     "Catat {type}: {amount} untuk {category} dari {account}? (Catat/Batal)",
	},
	FlowEditTransaction: {
		"AWAITING_FIELD":     "Bagian mana yang mau diubah? (jumlah, kategori, akun, tanggal)",
		"AWAITING_NEW_VALUE": "Diubah jadi apa?",
		StateConfirming:      "Ubah {field} menjadi {new_value}? (Ubah/Batal)",
	},
	FlowDeleteTransaction: {
		StateConfirming: "Hapus transaksi ini? Aksi ini tidak dapat dibatalkan. (Hapus/Batal)",
	},
	FlowTransfer: {
		"AWAITING_FROM_ACCOUNT": "Transfer dari akun mana? (misal: Cash, BCA)",
		"AWAITING_TO_ACCOUNT":   "Transfer ke akun mana? (misal: Gopay, OVO)",
		"AWAITING_AMOUNT":       "Berapa jumlahnya yang di-transfer?",
		StateConfirming:         "Transfer {amount} dari {from_account} ke {to_account}? (Konfirmasi/Batal)",
	},
	FlowCreateGoal: {
		"AWAITING_GOAL_NAME":     "Target tabungan untuk apa? (misal: Liburan, Laptop, Rumah)",
		"AWAITING_TARGET_AMOUNT": "Target berapa jumlahnya?",
		"AWAITING_DEADLINE":      "Target kapan? (misal: akhir tahun, 2026-12-31)",
		StateConfirming:          "Buat target tabungan: {name} target {target_amount} hingga {deadline}? (Buat/Batal)",
	},
}

const fallbackPrompt = "Lanjutkan informasi yang dibutuhkan:"

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// promptFor renders the question for a flow state, substituting any
// collected field values into the template.
func promptFor(flow, state string, data map[string]any) string {
	prompt, ok := statePrompts[flow][state]
	if !ok {
		return fallbackPrompt
	}
	return placeholderRe.ReplaceAllStringFunc(prompt, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := data[key]; ok {
			return fmt.Sprintf("%v", v)
		}
		return match
	})
}
