// Package naming implements the case-conversion family used to derive
// identifiers, file names and path segments throughout the pipeline:
// pascal, camel, kebab and snake case, plus pluralization for entity
// projection.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"github.com/gobuffalo/flect"
)

var titleCaser = cases.Title(language.Und)

// Tokens splits an identifier into its constituent words. A lower-to-upper
// transition starts a new token; '-', '_' and whitespace are separators and
// are dropped. Empty tokens never appear in the result.
func Tokens(s string) []string {
	var tokens []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = nil
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return tokens
}

// Pascal renders s in PascalCase: each token is lower-cased then
// title-cased and concatenated.
func Pascal(s string) string {
	var b strings.Builder
	for _, tok := range Tokens(s) {
		b.WriteString(titleToken(tok))
	}
	return b.String()
}

// Camel renders s in camelCase: Pascal with the first rune lower-cased.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Kebab renders s in kebab-case: tokens joined by '-', all lower-case.
func Kebab(s string) string {
	return joinLower(s, "-")
}

// Snake renders s in snake_case: tokens joined by '_', all lower-case.
func Snake(s string) string {
	return joinLower(s, "_")
}

func joinLower(s, sep string) string {
	toks := Tokens(s)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = strings.ToLower(t)
	}
	return strings.Join(out, sep)
}

// titleToken lower-cases a token then title-cases its first letter using
// Unicode-aware casing rules (not just ASCII 'A'-'Z').
func titleToken(tok string) string {
	lower := strings.ToLower(tok)
	return titleCaser.String(lower)
}

// Plural pluralizes an entity or resource name, used only by entity
// projection to derive a collection path segment (e.g. "invoice" -> "invoices").
func Plural(s string) string {
	return flect.Pluralize(s)
}

// Singular is the inverse of Plural.
func Singular(s string) string {
	return flect.Singularize(s)
}
