package table

import (
	"math"
	"strconv"
	"strings"
)

// ParseOptions controls how cells are classified.
type ParseOptions struct {
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// Strict disables locale and percent handling: only strconv.ParseFloat input counts as numeric.
	Strict bool
	// NAValues overrides the default missing-value tokens when non-nil.
	NAValues []string
}

// defaultNA mirrors the tokens pandas treats as missing on read.
var defaultNA = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

func isNA(s string, opt ParseOptions) bool {
	tokens := opt.NAValues
	if tokens == nil {
		tokens = defaultNA
	}
	if s == "" {
		return true
	}
	for _, tok := range tokens {
		if s == tok {
			return true
		}
	}
	return false
}

func classify(raw string, opt ParseOptions) Value {
	if isNA(raw, opt) {
		return Value{Raw: raw, Missing: true}
	}
	if x, ok := ParseNumber(raw, opt); ok {
		return Value{Raw: raw, Num: x, IsNum: true}
	}
	return Value{Raw: raw}
}

// ParseNumber parses s as a finite float. Unless opt.Strict is set it accepts
// percent signs and locale decimal/thousands separators.
func ParseNumber(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, finite(f)
	}
	if opt.Strict {
		return 0, false
	}
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// Decide decimal separator
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators (common: ',', '.', space) if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// FormatNumber renders a computed number the shortest way that round-trips.
func FormatNumber(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
