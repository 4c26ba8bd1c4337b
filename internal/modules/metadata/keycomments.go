package metadata

import (
	"strings"
	"unicode"
)

// SplitKeyComments breaks a grader's free-text key comments into discrete facts.
// A fact ends at a newline, or at '.', '!' or '?' followed by whitespace.
// A trailing period is dropped; other punctuation is kept.
func SplitKeyComments(text string) []string {
	var facts []string
	var current strings.Builder

	flush := func() {
		fact := strings.TrimSpace(current.String())
		fact = strings.TrimSpace(strings.TrimSuffix(fact, "."))
		if fact != "" {
			facts = append(facts, fact)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			flush()
		}
	}
	flush()

	return facts
}
