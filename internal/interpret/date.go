package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// naturalDates maps relative date terms to an offset applied to today.
var naturalDates = map[string]func(time.Time) time.Time{
	"hari ini":     func(t time.Time) time.Time { return t },
	"sekarang":     func(t time.Time) time.Time { return t },
	"today":        func(t time.Time) time.Time { return t },
	"now":          func(t time.Time) time.Time { return t },
	"kemarin":      func(t time.Time) time.Time { return t.AddDate(0, 0, -1) },
	"yesterday":    func(t time.Time) time.Time { return t.AddDate(0, 0, -1) },
	"besok":        func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
	"tomorrow":     func(t time.Time) time.Time { return t.AddDate(0, 0, 1) },
	"minggu depan": func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	"next week":    func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	"minggu lalu":  func(t time.Time) time.Time { return t.AddDate(0, 0, -7) },
	"last week":    func(t time.Time) time.Time { return t.AddDate(0, 0, -7) },
	"bulan depan":  func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	"next month":   func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	"bulan lalu":   func(t time.Time) time.Time { return t.AddDate(0, -1, 0) },
	"last month":   func(t time.Time) time.Time { return t.AddDate(0, -1, 0) },
	"tahun depan":  func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
	"next year":    func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
	"tahun lalu":   func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) },
	"last year":    func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) },
}

var monthNames = map[string]time.Month{
	"januari": time.January, "january": time.January, "jan": time.January,
	"februari": time.February, "february": time.February, "feb": time.February,
	"maret": time.March, "march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May, "may": time.May,
	"juni": time.June, "june": time.June, "jun": time.June,
	"juli": time.July, "july": time.July, "jul": time.July,
	"agustus": time.August, "august": time.August, "agu": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"oktober": time.October, "october": time.October, "okt": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"desember": time.December, "december": time.December, "des": time.December, "dec": time.December,
}

var (
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearOnlyRe = regexp.MustCompile(`^\d{4}$`)
	dayMonthRe = regexp.MustCompile(`^(\d{1,2})\s+([a-z]+)(?:\s+(\d{4}))?$`)
)

// Date interprets user input as a calendar date relative to now.
// Relative terms and ISO dates are exact; year-only and written-out
// dates are plausible enough to ask about.
func Date(input string, now time.Time) Result {
	res := Result{FieldType: "date", Original: input}

	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		res.Explanation = "Tanggal tidak diberikan"
		return res
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if offset, ok := naturalDates[normalized]; ok {
		res.Date = offset(today)
		res.Value = res.Date.Format("2006-01-02")
		res.Confidence = Exact
		return res
	}

	if isoDateRe.MatchString(normalized) {
		parsed, err := time.ParseInLocation("2006-01-02", normalized, now.Location())
		if err == nil {
			res.Date = parsed
			res.Value = normalized
			res.Confidence = Exact
			return res
		}
	}

	if yearOnlyRe.MatchString(normalized) {
		year, _ := strconv.Atoi(normalized)
		res.Date = time.Date(year, time.December, 31, 0, 0, 0, 0, now.Location())
		res.Value = res.Date.Format("2006-01-02")
		res.Confidence = Medium
		res.NeedsConfirmation = true
		res.Explanation = fmt.Sprintf("Tahun '%s' diartikan sebagai akhir tahun %s", input, normalized)
		return res
	}

	if m := dayMonthRe.FindStringSubmatch(normalized); m != nil {
		if month, ok := monthNames[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			if day >= 1 && day <= 31 {
				parsed := time.Date(today.Year(), month, day, 0, 0, 0, 0, now.Location())
				if m[3] != "" {
					year, _ := strconv.Atoi(m[3])
					parsed = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
				} else if parsed.Before(today) {
					// No year given and the date already passed: the
					// user means the next occurrence.
					parsed = parsed.AddDate(1, 0, 0)
				}
				res.Date = parsed
				res.Value = parsed.Format("2006-01-02")
				res.Confidence = Medium
				res.NeedsConfirmation = true
				return res
			}
		}
	}

	res.Explanation = fmt.Sprintf(
		"Tanggal '%s' tidak dikenali. Gunakan format YYYY-MM-DD atau istilah seperti 'hari ini', 'kemarin', 'besok'",
		input)
	return res
}
