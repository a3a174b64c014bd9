package textproc

import (
	"log"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// minSentenceLength: fragments whose trimmed length is at most this are discarded.
const minSentenceLength = 5

// whitespaceClass matches every Unicode whitespace rune, including NBSP,
// vertical tab and the \x1c-\x1f separators.
const whitespaceClass = `\s\p{Z}\v\x1c-\x1f\x85`

var (
	whitespaceRun   = regexp.MustCompile(`[` + whitespaceClass + `]+`)
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_` + whitespaceClass + `.,;!?/-]`)
)

type SentenceSplitter interface {
	// Split returns the cleaned sentences of text, dropping short fragments.
	Split(text string) []string
}

type sentenceSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSplitter loads the Punkt English sentence-boundary model. If the
// model cannot be loaded the splitter falls back to punctuation splitting.
func NewSentenceSplitter() SentenceSplitter {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Printf("⚠️  Failed to load sentence model, using punctuation splitter: %v\n", err)
		return &sentenceSplitter{}
	}
	return &sentenceSplitter{tokenizer: tokenizer}
}

// Split implements SentenceSplitter.
func (s *sentenceSplitter) Split(text string) []string {
	var result []string
	for _, raw := range s.segment(text) {
		raw = strings.TrimSpace(raw)
		if Length(raw) <= minSentenceLength {
			continue
		}

		cleaned := CleanSentence(raw)
		if strings.TrimSpace(cleaned) == "" {
			continue
		}
		result = append(result, cleaned)
	}
	return result
}

func (s *sentenceSplitter) segment(text string) []string {
	if s.tokenizer == nil {
		return splitIntoSentences(text)
	}

	tokens := s.tokenizer.Tokenize(text)
	segments := make([]string, 0, len(tokens))
	for _, t := range tokens {
		segments = append(segments, t.Text)
	}
	return segments
}

// CleanSentence collapses whitespace runs to one space and strips characters
// other than letters, digits, underscore, whitespace and .,;!?/-
func CleanSentence(sentence string) string {
	sentence = whitespaceRun.ReplaceAllString(sentence, " ")
	sentence = strings.TrimSpace(sentence)
	return disallowedChars.ReplaceAllString(sentence, "")
}

func splitIntoSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
