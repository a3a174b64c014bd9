package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRelevantTextFallsBackToOriginal(t *testing.T) {
	filter := NewRelevanceFilter(DefaultVocabulary().RelevanceKeywords)

	inputs := []string{
		"",
		"John Doe\nSkills: Go, SQL\nPage 1",
		"  indented line\r\nwith windows breaks\r\n",
	}
	for _, in := range inputs {
		assert.Equal(t, in, filter.Extract(in))
	}
}

func TestExtractRelevantTextKeepsRelevantLines(t *testing.T) {
	filter := NewRelevanceFilter(DefaultVocabulary().RelevanceKeywords)

	longLine := "built and operated distributed payment services at scale"
	var lines []string
	lines = append(lines, "Page 1", "SKILLS", "Go SQL")
	for i := 0; i < 6; i++ {
		lines = append(lines, longLine)
	}
	lines = append(lines, "Work Experience", "2019 2021")
	text := strings.Join(lines, "\n")

	want := strings.Join([]string{
		"SKILLS",
		longLine, longLine, longLine, longLine, longLine, longLine,
		"Work Experience",
	}, " ")

	got := filter.Extract(text)
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, len(strings.Fields(got)), minRelevantWords)
}

func TestExtractRelevantTextLineTokenThreshold(t *testing.T) {
	filter := NewRelevanceFilter(nil)

	assert.False(t, filter.isRelevant("one two three four five"))
	assert.True(t, filter.isRelevant("one two three four five six"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b", CleanText("  a\nb \n"))
	assert.Equal(t, "", CleanText("\n\n  "))
}

func TestPrepare(t *testing.T) {
	filter := NewRelevanceFilter(DefaultVocabulary().RelevanceKeywords)

	assert.Equal(t, "Skills: Go", filter.Prepare("\nSkills:\nGo\n"))
}

func TestLengthCountsRunes(t *testing.T) {
	assert.Equal(t, 5, Length("héllo"))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", ""}, splitLines("a\r\nb\rc\n\n"))
	assert.Empty(t, splitLines(""))
}

func TestSplitLinesHonorsAllLineBoundaries(t *testing.T) {
	assert.Equal(t,
		[]string{"Skills: Go", "Experience: 5 years", "Projects: billing"},
		splitLines("Skills: Go\fExperience: 5 years\u2028Projects: billing"),
	)
	assert.Equal(t,
		[]string{"a", "", "b", "c", "d", "e", "f", "g"},
		splitLines("a\v\vb\x1cc\x1dd\x1ee\u0085f\u2029g"),
	)
}

func TestExtractRelevantTextSplitsOnPageBreaks(t *testing.T) {
	filter := NewRelevanceFilter(DefaultVocabulary().RelevanceKeywords)

	longLine := "built and operated distributed payment services at scale"
	pages := []string{"Page 1"}
	for i := 0; i < 7; i++ {
		pages = append(pages, longLine)
	}

	got := filter.Extract(strings.Join(pages, "\f"))

	assert.Equal(t, strings.Join(pages[1:], " "), got)
}
