package action

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
)

// Normalize case-folds s and removes all whitespace.
func Normalize(s string) string {
	folded := cases.Fold().String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// Length returns the number of user-perceived characters in s.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Distance returns the Levenshtein distance between a and b, counting
// single-rune insertions, deletions and substitutions.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, cur[j-1]+1, prev[j]+1)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// SplitName splits an identifier on underscores and camelCase
// boundaries. An uppercase run followed by a lowercase letter starts a
// new word at its last capital: "HTTPServer" gives "HTTP", "Server".
func SplitName(name string) []string {
	var parts []string
	for _, chunk := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' }) {
		parts = append(parts, splitCamel(chunk)...)
	}
	return parts
}

func splitCamel(s string) []string {
	runes := []rune(s)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			boundary = true
		case unicode.IsDigit(prev) != unicode.IsDigit(cur):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			boundary = true
		}
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
