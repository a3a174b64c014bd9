package textproc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommonKeywords(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())

	got := k.Extract(
		"Experienced Python developer building Docker containers and Kubernetes clusters.",
		"Looking for a Python developer with Docker and Kubernetes experience.",
	)

	assert.Equal(t, []string{"developer", "docker", "kubernetes", "python"}, got)
}

func TestExtractIncludesMultiWordTechTerms(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())

	got := k.Extract("Worked on machine learning models.", "Machine Learning engineer wanted.")

	assert.Contains(t, got, "machine learning")
	assert.Contains(t, got, "machine")
	assert.Contains(t, got, "learning")
}

func TestExtractCapsAndSorts(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())
	words := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november oscar papa quebec romeo sierra tango"

	got := k.Extract(words, strings.ToUpper(words))

	require.Len(t, got, MaxKeywords)
	assert.True(t, sort.StringsAreSorted(got))
	assert.Equal(t, "alpha", got[0])
	assert.Equal(t, "oscar", got[MaxKeywords-1])
}

func TestExtractOnlySharedWords(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())
	resume := "golang microservices terraform observability"
	jd := "golang kotlin observability android"

	got := k.Extract(resume, jd)

	assert.Equal(t, []string{"golang", "observability"}, got)
	for _, w := range got {
		assert.Contains(t, resume, w)
		assert.Contains(t, jd, w)
	}
}

func TestExtractSkipsStopwordsShortAndNonAlpha(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())
	text := "the and of go c++ 2024 api"

	assert.Equal(t, []string{"api"}, k.Extract(text, text))
}

func TestExtractDeterministic(t *testing.T) {
	k := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())
	a := "rust kafka redis grafana prometheus linux"

	first := k.Extract(a, a)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, k.Extract(a, a))
	}
}

func TestSimpleFallbackStrategy(t *testing.T) {
	resume := "from Python, with care"
	jd := "from python with love"

	simple := NewKeywordExtractor(SimpleFallback, DefaultVocabulary())
	full := NewKeywordExtractor(FullTokenizer, DefaultVocabulary())

	assert.Equal(t, SimpleFallback, simple.Strategy())
	assert.Equal(t, []string{"from", "python"}, simple.Extract(resume, jd))
	assert.Equal(t, []string{"python"}, full.Extract(resume, jd))
}

func TestParseTokenizerStrategy(t *testing.T) {
	assert.Equal(t, SimpleFallback, ParseTokenizerStrategy(" Simple "))
	assert.Equal(t, FullTokenizer, ParseTokenizerStrategy("full"))
	assert.Equal(t, FullTokenizer, ParseTokenizerStrategy(""))
	assert.Equal(t, "simple", SimpleFallback.String())
}

func TestResolveVocabulary(t *testing.T) {
	t.Run("missing file selects fallback", func(t *testing.T) {
		vocab, strategy, err := ResolveVocabulary(filepath.Join(t.TempDir(), "missing.yaml"), FullTokenizer)

		assert.Error(t, err)
		assert.Equal(t, SimpleFallback, strategy)
		assert.NotEmpty(t, vocab.TechKeywords)
	})

	t.Run("partial file keeps default sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tech_keywords:\n  - Golang\n  - gRPC\n"), 0644))

		vocab, strategy, err := ResolveVocabulary(path, FullTokenizer)

		require.NoError(t, err)
		assert.Equal(t, FullTokenizer, strategy)
		assert.Equal(t, []string{"golang", "grpc"}, vocab.TechKeywords)
		assert.Equal(t, DefaultVocabulary().Stopwords, vocab.Stopwords)
	})

	t.Run("invalid yaml selects fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stopwords: [unterminated"), 0644))

		_, strategy, err := ResolveVocabulary(path, FullTokenizer)

		assert.Error(t, err)
		assert.Equal(t, SimpleFallback, strategy)
	})
}

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.Len(t, vocab.Stopwords, 179)
	assert.Contains(t, vocab.TechKeywords, "machine learning")
	assert.Equal(t, []string{"skills", "projects", "experience", "responsibilities", "requirements"}, vocab.RelevanceKeywords)
}
