package textproc

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary holds the word lists used by relevance filtering and keyword matching.
type Vocabulary struct {
	Stopwords         []string `yaml:"stopwords"`
	TechKeywords      []string `yaml:"tech_keywords"`
	RelevanceKeywords []string `yaml:"relevance_keywords"`
}

// DefaultVocabulary returns the vocabulary compiled into the binary.
func DefaultVocabulary() *Vocabulary {
	vocab, err := parseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("textproc: embedded vocabulary is invalid: %v", err))
	}
	return vocab
}

// LoadVocabulary reads a YAML vocabulary file. An empty path returns the
// default vocabulary. Sections missing from the file are taken from the default.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	vocab, err := parseVocabulary(data)
	if err != nil {
		return nil, err
	}

	defaults := DefaultVocabulary()
	if len(vocab.Stopwords) == 0 {
		vocab.Stopwords = defaults.Stopwords
	}
	if len(vocab.TechKeywords) == 0 {
		vocab.TechKeywords = defaults.TechKeywords
	}
	if len(vocab.RelevanceKeywords) == 0 {
		vocab.RelevanceKeywords = defaults.RelevanceKeywords
	}

	return vocab, nil
}

func parseVocabulary(data []byte) (*Vocabulary, error) {
	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	vocab.Stopwords = normalizeWords(vocab.Stopwords)
	vocab.TechKeywords = normalizeWords(vocab.TechKeywords)
	vocab.RelevanceKeywords = normalizeWords(vocab.RelevanceKeywords)

	return &vocab, nil
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
