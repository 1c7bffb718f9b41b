package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	textlanguage "golang.org/x/text/language"
)

// MaxNameLength bounds a sanitized path segment, in runes.
const MaxNameLength = 100

// Sanitize turns a display name into a path segment: path-hostile and
// control characters are dropped, whitespace runs become a single
// underscore, and the result is trimmed and truncated. Sanitize is
// idempotent.
func Sanitize(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r), unicode.IsControl(r) && !unicode.IsSpace(r):
			continue
		case unicode.IsSpace(r), r == '_':
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "._")
	if utf8.RuneCountInString(out) > MaxNameLength {
		out = strings.Trim(string([]rune(out)[:MaxNameLength]), "._")
	}
	return out
}

var titleCaser = cases.Title(textlanguage.English)

// TitleFromSlug derives a display title from a slug: "two-sum" -> "Two Sum".
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return titleCaser.String(strings.Join(words, " "))
}

// segment sanitizes a folder name, falling back when nothing survives.
func segment(name, fallback string) string {
	if s := Sanitize(name); s != "" {
		return s
	}
	return fallback
}
