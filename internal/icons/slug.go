package icons

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugReplacer = strings.NewReplacer(
	"+", "plus",
	".", "dot",
	"&", "and",
	"đ", "d",
	"ħ", "h",
	"ı", "i",
	"ĸ", "k",
	"ŀ", "l",
	"ł", "l",
	"ß", "ss",
	"ŧ", "t",
	"ø", "o",
)

// TitleToSlug derives the Simple Icons slug for a brand title.
func TitleToSlug(title string) string {
	s := slugReplacer.Replace(strings.ToLower(title))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
