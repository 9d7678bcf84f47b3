package reply

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMinKeyTermLength is the length a token must exceed to count as a key term.
const DefaultMinKeyTermLength = 3

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// Similarity is the Jaccard index of the lower-cased whitespace token sets of a and b.
// Two empty inputs score 0.
func Similarity(a, b string) float64 {
	sa, sb := tokenSet(a), tokenSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}

	inter := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// ExtractKeyTerms returns the distinct lower-cased tokens of message, edge punctuation
// removed, that are longer than minLen and are either all letters or contain a digit.
func ExtractKeyTerms(message string, minLen int) []string {
	seen := make(map[string]struct{})
	var terms []string

	for _, raw := range strings.Fields(strings.ToLower(message)) {
		tok := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(tok)) <= minLen {
			continue
		}
		if !isAlpha(tok) && !hasDigit(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// containsAnyTerm reports whether text contains any of terms, case-insensitively.
func containsAnyTerm(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

// splitSentences breaks free text into sentence-like fragments, dropping list markers.
func splitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}

		var b strings.Builder
		for _, r := range line {
			b.WriteRune(r)
			if r == '.' || r == '!' || r == '?' {
				if s := cleanCandidate(b.String()); s != "" {
					out = append(out, s)
				}
				b.Reset()
			}
		}
		if s := cleanCandidate(b.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanCandidate trims whitespace, stray quotes and trailing commas.
func cleanCandidate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`,[]")
	return strings.TrimSpace(s)
}
