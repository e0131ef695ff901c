package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules  = ruleset()
	titler = cases.Title(language.English, cases.NoLower)

	// acronyms keep their casing in generated identifiers.
	acronyms = map[string]string{
		"id":   "ID",
		"url":  "URL",
		"uri":  "URI",
		"json": "JSON",
		"html": "HTML",
		"jats": "JATS",
		"dom":  "DOM",
		"css":  "CSS",
	}
)

func ruleset() *inflect.Ruleset {
	r := inflect.NewDefaultRuleset()
	for a := range acronyms {
		r.AddAcronym(strings.ToUpper(a))
	}
	return r
}

// pascal converts a schema name (camelCase, kebab-case or snake_case)
// to an exported Go identifier.
func pascal(s string) string {
	parts := splitWords(s)
	var b strings.Builder
	for _, p := range parts {
		if a, ok := acronyms[strings.ToLower(p)]; ok {
			b.WriteString(a)
			continue
		}
		b.WriteString(titler.String(p))
	}
	return b.String()
}

// camel converts a schema name to an unexported Go identifier. A
// leading acronym is lowercased whole, so "id" stays "id" rather than
// becoming "iD".
func camel(s string) string {
	r := []rune(pascal(s))
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	if i == 0 {
		return string(r)
	}
	if i > 1 && i < len(r) {
		// Keep the last upper rune as the start of the next word.
		i--
	}
	for j := 0; j < i; j++ {
		r[j] = unicode.ToLower(r[j])
	}
	return string(r)
}

// snake converts a schema name to snake_case, for labels and file names.
func snake(s string) string {
	return rules.Underscore(strings.Join(splitWords(s), "_"))
}

// plural pluralizes a label.
func plural(s string) string {
	return rules.Pluralize(s)
}

// splitWords splits on case boundaries and separator runes.
func splitWords(s string) []string {
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Boundary unless continuing an upper run (acronym).
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				flush()
			} else if i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}
