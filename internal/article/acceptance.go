// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// minSentenceRunes is the length below which a split fragment is not
// counted as a sentence.
const minSentenceRunes = 20

var paragraphBreakRe = regexp.MustCompile(`\n{2,}`)

// Paragraphs splits body on blank-line breaks after dropping carriage
// returns and trimming the whole body.
func Paragraphs(body string) []string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\r", ""))
	return paragraphBreakRe.Split(body, -1)
}

// Sentences splits a paragraph after each '.', '!' or '?' that is
// followed by whitespace and keeps fragments of at least minSentenceRunes.
func Sentences(paragraph string) []string {
	var out []string
	keep := func(s string) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) >= minSentenceRunes {
			out = append(out, s)
		}
	}

	start := 0
	for i, r := range paragraph {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(paragraph) {
			continue
		}
		if nr, _ := utf8.DecodeRuneInString(paragraph[next:]); unicode.IsSpace(nr) {
			keep(paragraph[start:next])
			start = next
		}
	}
	keep(paragraph[start:])
	return out
}

// SentenceCounts returns the qualifying sentence count of each paragraph.
func SentenceCounts(body string) []int {
	paras := Paragraphs(body)
	counts := make([]int, len(paras))
	for i, p := range paras {
		counts[i] = len(Sentences(p))
	}
	return counts
}

// IntroContainsBanned reports whether the first paragraph contains any
// banned phrase, ignoring case.
func IntroContainsBanned(body string, banned []string) bool {
	first := strings.ToLower(Paragraphs(body)[0])
	for _, b := range banned {
		if b == "" {
			continue
		}
		if strings.Contains(first, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

// NeedsRegeneration reports whether a must be generated again: an empty
// body, a banned phrase in the opening paragraph, or any paragraph with
// fewer than minSentences qualifying sentences.
func NeedsRegeneration(a types.GeneratedArticle, banned []string, minSentences int) bool {
	if strings.TrimSpace(a.Body) == "" {
		return true
	}
	if IntroContainsBanned(a.Body, banned) {
		return true
	}
	for _, n := range SentenceCounts(a.Body) {
		if n < minSentences {
			return true
		}
	}
	return false
}
