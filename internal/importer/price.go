package importer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var priceNumber = regexp.MustCompile(`\d+[.,]?\d*`)

// ParsePrice extracts the first decimal number from raw price text after
// stripping currency symbols, commas, and whitespace, with a remaining
// comma treated as a decimal point. It reports false when the text
// contains no digits at all.
func ParsePrice(raw string) (float64, bool) {
	stripped := strings.Map(func(r rune) rune {
		if r == '€' || r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	match := priceNumber.FindString(stripped)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
