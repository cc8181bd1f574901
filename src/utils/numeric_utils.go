package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Anything that is not a digit, comma, dot, minus or plain space is noise
// (currency symbols, stray letters) and is stripped before parsing.
var nonNumericRe = regexp.MustCompile(`[^\d,\-. ]+`)

// ParseLocaleFloat converts a raw ledger amount to a float64, defaulting to
// 0 on any failure. It accepts already-numeric values, thousands separated
// by regular or non-breaking spaces, and a decimal comma ("1 234,56").
// It never fails: an unparseable amount degrades to zero instead of
// dropping the row.
func ParseLocaleFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", " ") // NBSP
	s = strings.ReplaceAll(s, " ", " ") // narrow NBSP
	s = nonNumericRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
