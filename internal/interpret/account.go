package interpret

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pramudya/arus/internal/model"
)

// accountAliases maps lowercase user spellings to canonical account
// names. Canonical names themselves are included so exact input always
// resolves without confirmation.
var accountAliases = map[string]string{
	"cash":                 model.AccountCash,
	"tunai":                model.AccountCash,
	"bca":                  "BCA",
	"maybank":              "Maybank",
	"seabank":              "Seabank",
	"shopeepay":            "Shopeepay",
	"shopee":               "Shopeepay",
	"gopay":                "Gopay",
	"gojek":                "Gopay",
	"jago":                 "Jago",
	"isaku":                "ISaku",
	"ovo":                  "Ovo",
	"superbank":            "Superbank",
	"blu":                  model.AccountBlu,
	"blu account":          model.AccountBlu,
	"blu account (saving)": model.AccountBlu,
}

// Account interprets user input as one of the known account names.
func Account(input string) Result {
	res := Result{FieldType: "account", Original: input}

	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		res.Explanation = "Akun tidak diberikan"
		return res
	}

	if canonical, ok := accountAliases[normalized]; ok {
		res.Value = canonical
		res.Confidence = Exact
		return res
	}

	type candidate struct {
		canonical string
		ratio     float64
	}
	best := make(map[string]float64)
	for alias, canonical := range accountAliases {
		// Account names are short, so Jaro-Winkler alone scores
		// unrelated strings surprisingly high. Require at least the
		// leading character to line up before trusting the ratio.
		if normalized[0] != alias[0] {
			continue
		}
		r := similarity(normalized, alias)
		if r < thresholdLow {
			continue
		}
		if r > best[canonical] {
			best[canonical] = r
		}
	}

	if len(best) == 0 {
		res.Explanation = fmt.Sprintf(
			"Akun '%s' tidak dikenali. Akun yang tersedia: %s",
			input, strings.Join(model.Accounts, ", "))
		return res
	}

	ranked := make([]candidate, 0, len(best))
	for canonical, ratio := range best {
		ranked = append(ranked, candidate{canonical, ratio})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ratio != ranked[j].ratio {
			return ranked[i].ratio > ranked[j].ratio
		}
		return ranked[i].canonical < ranked[j].canonical
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	res.Value = ranked[0].canonical
	res.Confidence = confidenceLevel(ranked[0].ratio)
	res.NeedsConfirmation = res.Confidence != Exact
	for _, c := range ranked[1:] {
		res.Alternatives = append(res.Alternatives, c.canonical)
	}
	return res
}
