// Package slug derives URL-safe keys from catalog names. Derivation is pure
// and deterministic: the same name always yields the same slug.
package slug

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// stripped are removed before transliteration. Apostrophes the
// transliteration itself emits for hard and soft signs go too.
var stripped = strings.NewReplacer(
	"'", "",
	"’", "",
	"ʼ", "",
	"ь", "",
	"(", "",
	")", "",
)

// Transliterate strips apostrophes, soft signs and parentheses, converts
// name to ASCII and replaces spaces with hyphens. Case is kept.
// Characters with no printable ASCII form are dropped.
func Transliterate(name string) string {
	ascii := stripped.Replace(unidecode.Unidecode(stripped.Replace(name)))

	var out strings.Builder
	out.Grow(len(ascii))
	for _, r := range ascii {
		switch {
		case r == ' ':
			out.WriteByte('-')
		case r < unicode.MaxASCII && unicode.IsPrint(r):
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Make returns the lower-cased transliteration of name.
func Make(name string) string {
	return strings.ToLower(Transliterate(name))
}
