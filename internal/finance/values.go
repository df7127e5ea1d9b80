package finance

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
)

var (
	reAmount  = regexp.MustCompile(`(\()?\$?\s*(-?\d{1,3}(?:,\d{3})*(?:\.\d+)?|-?\d+(?:\.\d+)?)(\))?\s*(?:(million|billion|trillion|mm|bn|m|b)\b)?`)
	rePercent = regexp.MustCompile(`(-?\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(?:%|percent|percentage)`)
)

var scaleWords = map[string]float64{
	"million":  1e6,
	"billion":  1e9,
	"trillion": 1e12,
	"m":        1e6,
	"mm":       1e6,
	"b":        1e9,
	"bn":       1e9,
}

// ParseAmount normalizes one stated figure into a plain value plus a unit
// tag. It understands currency symbols, thousands separators, scale words
// ("$1.2 billion" -> 1.2e9, currency), percent signs ("12.5%" -> 12.5,
// percent), and accounting-style parentheses for negatives.
func ParseAmount(s string) (float64, entity.Unit, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, entity.UnitPlain, false
	}

	if m := rePercent.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0, entity.UnitPlain, false
		}
		return v, entity.UnitPercent, true
	}

	m := reAmount.FindStringSubmatch(s)
	if m == nil || m[2] == "" {
		return 0, entity.UnitPlain, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return 0, entity.UnitPlain, false
	}
	// accounting negatives: (1,234) means -1234
	if m[1] == "(" && m[3] == ")" && v > 0 {
		v = -v
	}
	if scale, ok := scaleWords[strings.ToLower(m[4])]; ok {
		v *= scale
	}

	unit := entity.UnitPlain
	if strings.Contains(s, "$") || m[4] != "" {
		unit = entity.UnitCurrency
	}
	return v, unit, true
}

// ExtractNumbers returns every numeric value in the text, normalized: scale
// words applied, separators and symbols stripped. Used by the judge's
// tolerance check.
func ExtractNumbers(text string) []float64 {
	var out []float64
	for _, m := range reAmount.FindAllStringSubmatch(text, -1) {
		if m[2] == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			continue
		}
		if scale, ok := scaleWords[strings.ToLower(m[4])]; ok {
			v *= scale
		}
		out = append(out, v)
	}
	return out
}

// WithinTolerance reports whether pred matches gold within the given
// relative error (relative to gold; absolute compare when gold is zero).
func WithinTolerance(pred, gold, tolerance float64) bool {
	if gold == 0 {
		return pred == 0 || absFloat(pred) <= tolerance
	}
	return absFloat(pred-gold) <= tolerance*absFloat(gold)
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
