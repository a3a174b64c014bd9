package textproc

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords caps the number of matched keywords returned.
const MaxKeywords = 15

// minKeywordLength: words must be longer than this to count as keywords.
const minKeywordLength = 2

// TokenizerStrategy selects how words are tokenized for keyword matching.
// It is chosen once at startup.
type TokenizerStrategy int

const (
	// FullTokenizer peels punctuation off each token and filters the full
	// English stopword list.
	FullTokenizer TokenizerStrategy = iota
	// SimpleFallback splits on whitespace, trims .,!?;: and filters a small
	// fixed stopword list.
	SimpleFallback
)

var fallbackStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
}

func (s TokenizerStrategy) String() string {
	switch s {
	case FullTokenizer:
		return "full"
	case SimpleFallback:
		return "simple"
	default:
		return "unknown"
	}
}

// ParseTokenizerStrategy maps "simple" to SimpleFallback and anything else to FullTokenizer.
func ParseTokenizerStrategy(name string) TokenizerStrategy {
	if strings.EqualFold(strings.TrimSpace(name), "simple") {
		return SimpleFallback
	}
	return FullTokenizer
}

// ResolveVocabulary loads the vocabulary at path and settles the tokenizer
// strategy. A vocabulary that fails to load forces SimpleFallback with the
// default vocabulary; the load error is returned for logging.
func ResolveVocabulary(path string, preferred TokenizerStrategy) (*Vocabulary, TokenizerStrategy, error) {
	vocab, err := LoadVocabulary(path)
	if err != nil {
		return DefaultVocabulary(), SimpleFallback, err
	}
	return vocab, preferred, nil
}

// KeywordExtractor finds keywords shared by a resume and a job description.
type KeywordExtractor struct {
	strategy     TokenizerStrategy
	stopwords    map[string]struct{}
	techKeywords []string
}

func NewKeywordExtractor(strategy TokenizerStrategy, vocab *Vocabulary) *KeywordExtractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	stopwords := vocab.Stopwords
	if strategy == SimpleFallback {
		stopwords = fallbackStopwords
	}

	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[w] = struct{}{}
	}

	return &KeywordExtractor{
		strategy:     strategy,
		stopwords:    set,
		techKeywords: vocab.TechKeywords,
	}
}

func (k *KeywordExtractor) Strategy() TokenizerStrategy {
	return k.strategy
}

// Extract returns up to MaxKeywords words present in both texts, plus
// allowlisted technology terms found in both, sorted lexicographically.
func (k *KeywordExtractor) Extract(resumeText, jdText string) []string {
	resumeWords := k.wordSet(resumeText)
	jdWords := k.wordSet(jdText)

	common := make(map[string]struct{})
	for w := range resumeWords {
		if _, ok := jdWords[w]; ok {
			common[w] = struct{}{}
		}
	}

	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jdText)
	for _, term := range k.techKeywords {
		if strings.Contains(resumeLower, term) && strings.Contains(jdLower, term) {
			common[term] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(common))
	for w := range common {
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}

func (k *KeywordExtractor) wordSet(text string) map[string]struct{} {
	var tokens []string
	switch k.strategy {
	case SimpleFallback:
		tokens = simpleTokens(text)
	default:
		tokens = fullTokens(text)
	}

	words := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		word := strings.ToLower(token)
		if Length(word) <= minKeywordLength || !isAlpha(word) {
			continue
		}
		if _, stop := k.stopwords[word]; stop {
			continue
		}
		words[word] = struct{}{}
	}
	return words
}

// fullTokens splits on whitespace and peels leading and trailing punctuation
// and symbols off each token.
func fullTokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func simpleTokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, strings.Trim(field, ".,!?;:"))
	}
	return tokens
}

func isAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
