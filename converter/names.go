package converter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// cleanName turns an arbitrary source name into a valid identifier:
// diacritics are folded away, anything outside [A-Za-z0-9_] becomes '_',
// and a leading digit gets an underscore prefix.
func cleanName(name string) string {
	if folded, _, err := transform.String(asciiFolder, name); err == nil {
		name = folded
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
