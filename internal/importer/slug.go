package importer

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input, collapses every run of non-alphanumeric
// characters to a single hyphen, and trims leading/trailing hyphens.
// The transform is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
