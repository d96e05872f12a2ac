package report

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// U+2010..U+2015 hyphen and dash variants plus the minus sign.
	dashVariants = regexp.MustCompile(`[\x{2010}-\x{2015}\x{2212}]`)
	// Unicode separators (NBSP, thin space, ...) count as whitespace.
	unicodeSpace = regexp.MustCompile(`[\p{Z}\s]+`)
	// Anything outside word chars, whitespace, accented Latin or hyphen.
	labelNoise = regexp.MustCompile(`[^\w\s\x{00C0}-\x{017F}-]`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// Normalize returns the matching key for a stage label. It composes
// accents (NFC), lowercases, unifies dashes to "-", drops emoji and
// punctuation and collapses whitespace. Normalize(Normalize(s)) ==
// Normalize(s) for every s.
func Normalize(label string) string {
	n := norm.NFC.String(label)
	n = strings.ToLower(n)
	n = dashVariants.ReplaceAllString(n, "-")
	n = unicodeSpace.ReplaceAllString(n, " ")
	n = labelNoise.ReplaceAllString(n, "")
	n = multiSpace.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}
