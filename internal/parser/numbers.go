package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var numberCleaner = strings.NewReplacer(
	"$", "",
	" ", "",
	"\u00a0", "", // no-break space used as a thousands separator
	"\u202f", "",
	"\u2212", "-", // typographic minus
	",", ".",
)

// NormalizeNumber prepares a human-written amount for parsing: currency signs and
// thousands spaces are removed and a decimal comma becomes a point.
func NormalizeNumber(s string) string {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "+")
}

// ParseStrict parses a normalized amount and fails on anything that is not a number.
func ParseStrict(s string) (float64, error) {
	n := NormalizeNumber(s)
	if n == "" {
		return 0, fmt.Errorf("%w: empty value", ErrBadNumber)
	}
	d, err := decimal.NewFromString(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return d.InexactFloat64(), nil
}

// ParseTolerant is ParseStrict that resolves every failure to zero.
func ParseTolerant(s string) float64 {
	v, err := ParseStrict(s)
	if err != nil {
		return 0
	}
	return v
}

// parseLeadingAmount reads an amount that may be followed by a remark, e.g.
// "-2$ (вход)". A parenthesised remark is dropped first; then the whole value wins
// when it parses, so "-1 200$" stays -1200.
func parseLeadingAmount(s string) float64 {
	s, _, _ = strings.Cut(s, "(")
	if v, err := ParseStrict(s); err == nil {
		return v
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	return ParseTolerant(words[0])
}
