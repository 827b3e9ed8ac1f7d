package render

import (
	"strings"
	"unicode"
)

func toKebabCase(s string) string {
	return joinWords(s, "-")
}

func toSnakeCase(s string) string {
	return joinWords(s, "_")
}

func humanize(s string) string {
	words := splitWords(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func joinWords(s, sep string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, sep)
}

// splitWords breaks s on spaces, underscores, hyphens, lower-to-upper case
// changes and letter/digit boundaries. Other punctuation is dropped.
func splitWords(s string) []string {
	var (
		words   []string
		current []rune
		prev    rune
	)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range s {
		switch {
		case r == ' ' || r == '_' || r == '-':
			flush()
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			// Dropped runes do not count as the previous rune.
			continue
		case i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)),
			i > 0 && unicode.IsLetter(r) && unicode.IsDigit(prev),
			i > 0 && unicode.IsDigit(r) && unicode.IsLetter(prev):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()

	return words
}
