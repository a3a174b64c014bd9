package textproc

import (
	"strings"
	"unicode/utf8"
)

// minRelevantWords is the word count below which filtering is abandoned and
// the original text is kept.
const minRelevantWords = 50

// minLineTokens: lines with more tokens than this are kept regardless of keywords.
const minLineTokens = 5

// RelevanceFilter keeps the job-relevant lines of noisy extracted text.
type RelevanceFilter struct {
	keywords []string
}

func NewRelevanceFilter(keywords []string) *RelevanceFilter {
	normalized := normalizeWords(keywords)
	return &RelevanceFilter{keywords: normalized}
}

// Extract keeps lines mentioning a relevance keyword or carrying more than
// five tokens, joined by single spaces. When fewer than fifty words survive
// the original text is returned unchanged.
func (f *RelevanceFilter) Extract(text string) string {
	var relevant []string
	for _, line := range splitLines(text) {
		if f.isRelevant(line) {
			relevant = append(relevant, line)
		}
	}

	filtered := strings.Join(relevant, " ")
	if len(strings.Fields(filtered)) < minRelevantWords {
		return text
	}
	return filtered
}

// Prepare runs Extract followed by CleanText.
func (f *RelevanceFilter) Prepare(text string) string {
	return CleanText(f.Extract(text))
}

func (f *RelevanceFilter) isRelevant(line string) bool {
	lower := strings.ToLower(line)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return len(strings.Fields(line)) > minLineTokens
}

// CleanText turns newlines into spaces and trims surrounding whitespace.
func CleanText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// Length counts runes, not bytes.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// splitLines breaks text at \n, \r, \r\n, \v, \f, \x1c-\x1e, \x85, U+2028 and
// U+2029. Empty lines are kept; a trailing break does not add an empty line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}

		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}

	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
