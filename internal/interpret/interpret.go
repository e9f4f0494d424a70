// Package interpret turns free-form user input into normalized field
// values with an explicit confidence level, so callers know when to ask
// the user to confirm an interpretation.
package interpret

import (
	"fmt"
	"strings"
	"time"
)

// Confidence ranks how certain an interpretation is. Ordering matters:
// higher values are more certain.
type Confidence int

const (
	// NoMatch means the input could not be interpreted.
	NoMatch Confidence = iota
	// Low is a weak fuzzy match that must be confirmed.
	Low
	// Medium is a plausible fuzzy match that should be confirmed.
	Medium
	// High is a strong fuzzy match.
	High
	// Exact is a perfect match needing no confirmation.
	Exact
)

// Similarity thresholds for mapping a ratio onto a confidence level.
const (
	thresholdExact  = 1.0
	thresholdHigh   = 0.85
	thresholdMedium = 0.65
	thresholdLow    = 0.40
)

func (c Confidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "no_match"
	}
}

// confidenceLevel maps a similarity ratio onto a confidence level.
func confidenceLevel(ratio float64) Confidence {
	switch {
	case ratio >= thresholdExact:
		return Exact
	case ratio >= thresholdHigh:
		return High
	case ratio >= thresholdMedium:
		return Medium
	case ratio >= thresholdLow:
		return Low
	default:
		return NoMatch
	}
}

// Result is the outcome of interpreting one field of user input.
type Result struct {
	FieldType         string
	Original          string
	Value             string
	Explanation       string
	Alternatives      []string
	Date              time.Time
	Amount            float64
	Confidence        Confidence
	NeedsConfirmation bool
}

// ConfirmationMessage renders the question shown to the user when an
// interpretation needs confirming. Empty when no confirmation is needed.
func (r Result) ConfirmationMessage() string {
	if !r.NeedsConfirmation || r.Value == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Saya interpretasi '%s' sebagai ", r.Original))
	switch r.FieldType {
	case "account":
		b.WriteString(fmt.Sprintf("akun **%s**", r.Value))
	case "date":
		b.WriteString(fmt.Sprintf("tanggal **%s**", r.Value))
	case "category":
		b.WriteString(fmt.Sprintf("kategori **%s**", r.Value))
	default:
		b.WriteString(fmt.Sprintf("%s **%s**", r.FieldType, r.Value))
	}

	if len(r.Alternatives) > 0 {
		b.WriteString(fmt.Sprintf("\n\nAlternatif lain: %s", strings.Join(r.Alternatives, ", ")))
	}
	b.WriteString("\n\nBenar? Respons dengan 'ya' atau 'tidak'")
	return b.String()
}
