package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Amount limits in IDR. Amounts above LargeAmountThreshold require an
// explicit user confirmation before execution.
const (
	MaxAmount            = 100_000_000_000
	LargeAmountThreshold = 10_000_000
)

// multipliers for shorthand suffixes like "50rb" or "1.5jt".
var suffixMultipliers = map[string]float64{
	"rb":      1_000,
	"ribu":    1_000,
	"k":       1_000,
	"jt":      1_000_000,
	"juta":    1_000_000,
	"m":       1_000_000,
	"million": 1_000_000,
	"milyar":  1_000_000_000,
	"miliar":  1_000_000_000,
	"b":       1_000_000_000,
	"billion": 1_000_000_000,
}

// indonesianNumbers maps spelled-out number words to their values.
var indonesianNumbers = map[string]float64{
	"nol": 0, "satu": 1, "dua": 2, "tiga": 3, "empat": 4,
	"lima": 5, "enam": 6, "tujuh": 7, "delapan": 8, "sembilan": 9,
	"sepuluh": 10, "sebelas": 11, "belas": 10, "puluh": 10,
	"ratus": 100, "seratus": 100,
	"ribu": 1_000, "seribu": 1_000,
	"juta": 1_000_000, "jt": 1_000_000,
	"milyar": 1_000_000_000, "miliar": 1_000_000_000,
}

var (
	shorthandRe      = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(rb|ribu|k|jt|juta|m|million|milyar|miliar|b|billion)$`)
	amountInTextRe   = regexp.MustCompile(`(?i)(?:rp\.?\s*)?\d[\d.,]*\s*(?:rb|ribu|k|jt|juta|m|million|milyar|miliar|b|billion)?\b`)
	currencyPrefixRe = regexp.MustCompile(`^(?:rp\.?|[$€¥£])\s*`)
	numericRe        = regexp.MustCompile(`^\d[\d.,]*$`)
)

// ParseAmount parses an amount written as shorthand ("50rb", "1.5jt"),
// a plain number with Indonesian, European, or American separators
// ("50.000", "1.000,50", "1,000.50"), or spelled-out Indonesian words
// ("lima puluh ribu"). Returns false when nothing parseable is found.
func ParseAmount(text string) (float64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0, false
	}

	stripped := currencyPrefixRe.ReplaceAllString(normalized, "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	if m := shorthandRe.FindStringSubmatch(stripped); m != nil {
		num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil && num > 0 {
			return num * suffixMultipliers[m[2]], true
		}
	}

	if v, ok := parseNumeric(stripped); ok {
		return v, true
	}

	return parseIndonesianWords(normalized)
}

// parseNumeric handles separator disambiguation on a digit string.
func parseNumeric(s string) (float64, bool) {
	if s == "" || !numericRe.MatchString(s) {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		// The later separator is the decimal mark.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// One comma with up to two trailing digits is a decimal mark,
		// anything else is a thousands separator.
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		// Indonesian convention: a dot followed by exactly three digits
		// is a thousands separator, as in "50.000".
		parts := strings.Split(s, ".")
		thousands := len(parts) > 2
		if len(parts) == 2 && len(parts[1]) == 3 {
			thousands = true
		}
		if thousands {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseIndonesianWords evaluates spelled-out numbers. Small scale words
// (puluh, ratus) multiply the unit just before them; large scale words
// (ribu, juta, milyar) close out the running group: "dua ratus lima
// puluh ribu" -> 250_000.
func parseIndonesianWords(text string) (float64, bool) {
	var total, current, lastUnit float64
	matched := false

	for _, word := range strings.Fields(text) {
		num, ok := indonesianNumbers[word]
		if !ok {
			return 0, false
		}
		matched = true
		switch {
		case num >= 1_000:
			if current == 0 {
				current = 1
			}
			total += current * num
			current, lastUnit = 0, 0
		case num >= 10:
			if lastUnit == 0 {
				current += num
			} else {
				current = current - lastUnit + lastUnit*num
				lastUnit = 0
			}
		default:
			current += num
			lastUnit = num
		}
	}

	result := total + current
	if !matched || result <= 0 {
		return 0, false
	}
	return result, true
}

// ExtractAmount finds and parses the first amount mentioned in a free
// text message.
func ExtractAmount(message string) (float64, bool) {
	for _, m := range amountInTextRe.FindAllString(message, -1) {
		if v, ok := ParseAmount(m); ok {
			return v, true
		}
	}
	return ParseAmount(message)
}

// Amount interprets user input as a positive monetary amount.
func Amount(input string) Result {
	res := Result{FieldType: "amount", Original: input}

	v, ok := ParseAmount(input)
	if !ok {
		res.Explanation = fmt.Sprintf(
			"Jumlah '%s' tidak dikenali. Contoh: 50000, 50rb, 1.5jt, lima puluh ribu", input)
		return res
	}
	if v > MaxAmount {
		res.Explanation = fmt.Sprintf("Jumlah %.0f melebihi batas maksimum", v)
		return res
	}

	res.Amount = v
	res.Value = strconv.FormatFloat(v, 'f', -1, 64)
	if _, err := strconv.ParseFloat(strings.TrimSpace(input), 64); err == nil {
		res.Confidence = Exact
	} else {
		res.Confidence = High
	}
	return res
}
