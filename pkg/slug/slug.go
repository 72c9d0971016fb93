package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a URL slug from a store name: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, no leading or trailing
// hyphen. Returns "" for names with no usable characters.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
