package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler derives a display label from a property name: camelCase,
// snake_case, and kebab-case all become space-separated Title Case words, so
// "firstName" and "first_name" both read "First Name".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// splitWords breaks a name on explicit separators and on case or digit
// transitions. Runs of upper-case letters stay together until the case drops
// again, so "APIKey" splits as "API", "Key".
func splitWords(name string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case i > 0 && wordBoundary(runes[i-1], r, peek(runes, i+1)):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

func wordBoundary(prev, r, next rune) bool {
	if unicode.IsLetter(prev) && unicode.IsDigit(r) {
		return true
	}
	if unicode.IsDigit(prev) && unicode.IsLetter(r) {
		return true
	}
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) {
		return true
	}
	// End of an acronym run: "APIKey" breaks before "Key".
	return unicode.IsUpper(prev) && unicode.IsLower(next)
}

func peek(runes []rune, i int) rune {
	if i >= len(runes) {
		return 0
	}
	return runes[i]
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
