package utils

import (
	"strings"
	"unicode"
)

// Title converts the first letter of each word to uppercase and the rest to lowercase.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// LikePattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?
func LikePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(term)
	return "%" + term + "%"
}

// LikeClause renders "LOWER(column) LIKE ? ESCAPE '\'" for use with LikePattern
func LikeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}
