// Package profanity flags text containing forbidden substrings. Matching is
// case-insensitive and not limited to whole words.
package profanity

import (
	"strings"

	"github.com/atinyakov/leaderboard/internal/models"
	"golang.org/x/text/cases"
)

// Checker holds an immutable, case-folded wordlist.
type Checker struct {
	words []string
}

var defaultChecker = New()

// New returns a Checker using the built-in wordlist plus any extra words.
// Empty extra words are ignored.
func New(extra ...string) *Checker {
	words := make([]string, 0, len(defaultWords)+len(extra))
	for _, w := range append(append([]string{}, defaultWords...), extra...) {
		if w = fold(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &Checker{words: words}
}

// Contains reports whether text contains any forbidden substring.
func (c *Checker) Contains(text string) bool {
	folded := fold(text)
	for _, w := range c.words {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// Check classifies text as pass or fail.
func (c *Checker) Check(text string) models.CheckResult {
	if c.Contains(text) {
		return models.CheckFail
	}
	return models.CheckPass
}

// Check classifies text against the built-in wordlist.
func Check(text string) models.CheckResult {
	return defaultChecker.Check(text)
}

// fold creates a fresh Caser per call; Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
