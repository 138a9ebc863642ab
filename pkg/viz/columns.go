package viz

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// Ordered preference lists per channel. First match against the dataset's
// available columns wins; order encodes domain priority, not alphabet.
var (
	xPreferences     = []string{"credit_score", "customer_credit_score", "score", "rating"}
	yPreferences     = []string{"annual_income", "income", "salary", "loan_amount", "amount"}
	colorPreferences = []string{"risk_category", "customer_type", "segment", "category", "status"}
	sizePreferences  = []string{"loan_amount", "amount", "balance", "value"}
)

const fuzzyThreshold = 0.8

// editOptions counts a substitution as one edit, so a single-letter typo in a
// six-letter column still clears fuzzyThreshold.
var editOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// AutoEncoding picks x, y, color and size channels for a dataset whose
// caller supplied no explicit encoding. Columns are matched against the
// preference lists by substring first, then by edit-distance similarity;
// when nothing matches, the first two available columns become x and y.
// Color is only assigned when a third distinct column exists.
func (c *Compiler) AutoEncoding(data []map[string]any) models.Encoding {
	columns := availableColumns(data)
	enc := models.Encoding{}
	if len(columns) == 0 {
		return enc
	}

	used := map[string]bool{}
	assign := func(channel string, prefs []string) {
		if col := matchPreference(columns, prefs, used); col != "" {
			enc[channel] = col
			used[col] = true
		}
	}

	assign("x", xPreferences)
	assign("y", yPreferences)

	if enc["x"] == "" {
		enc["x"] = firstUnused(columns, used)
		used[enc["x"]] = true
	}
	if enc["y"] == "" {
		if col := firstUnused(columns, used); col != "" {
			enc["y"] = col
			used[col] = true
		} else {
			delete(enc, "y")
		}
	}

	if len(columns) >= 3 {
		assign("color", colorPreferences)
		if enc["color"] == "" {
			if col := firstUnused(columns, used); col != "" {
				enc["color"] = col
				used[col] = true
			}
		}
		assign("size", sizePreferences)
	}

	for channel, col := range enc {
		if col == "" {
			delete(enc, channel)
		}
	}
	return enc
}

// availableColumns returns the first row's column names in sorted order so
// fallback selection is deterministic.
func availableColumns(data []map[string]any) []string {
	if len(data) == 0 {
		return nil
	}
	columns := make([]string, 0, len(data[0]))
	for name := range data[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

func matchPreference(columns, prefs []string, used map[string]bool) string {
	for _, pref := range prefs {
		for _, col := range columns {
			if used[col] {
				continue
			}
			lc := strings.ToLower(col)
			if strings.Contains(lc, pref) || strings.Contains(pref, lc) {
				return col
			}
		}
	}
	// Second pass tolerates near-miss spellings like "salery".
	for _, pref := range prefs {
		for _, col := range columns {
			if used[col] {
				continue
			}
			if similarity(strings.ToLower(col), pref) >= fuzzyThreshold {
				return col
			}
		}
	}
	return ""
}

func firstUnused(columns []string, used map[string]bool) string {
	for _, col := range columns {
		if !used[col] {
			return col
		}
	}
	return ""
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0.0
	}
	dist := levenshtein.DistanceForStrings([]rune(a), []rune(b), editOptions)
	return 1.0 - float64(dist)/float64(longest)
}
