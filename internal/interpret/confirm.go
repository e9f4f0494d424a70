package interpret

import "strings"

var yesWords = map[string]bool{
	"ya": true, "yes": true, "y": true, "benar": true, "iya": true,
	"yep": true, "yup": true, "ok": true, "oke": true, "okeh": true,
	"setuju": true, "iyah": true, "betul": true, "betulkah": true,
}

var noWords = map[string]bool{
	"tidak": true, "no": true, "n": true, "tidak setuju": true,
	"nggak": true, "enggak": true, "salah": true, "nope": true, "nah": true,
}

// IsYes reports whether the message is an affirmative reply.
func IsYes(message string) bool {
	return yesWords[strings.ToLower(strings.TrimSpace(message))]
}

// IsNo reports whether the message is a negative reply.
func IsNo(message string) bool {
	return noWords[strings.ToLower(strings.TrimSpace(message))]
}
