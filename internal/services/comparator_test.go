package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
)

func resumeText(label string) string {
	return label + " has plenty of resume content here"
}

func TestCompareOrdersByDescendingScore(t *testing.T) {
	scorer := &staticScorer{results: map[string]*models.SimilarityResult{
		resumeText("low"):  {Score: 30},
		resumeText("high"): {Score: 90},
		resumeText("mid"):  {Score: 60},
	}}
	keywords := keywordFunc(func(string, string) []string { return []string{"golang"} })
	comparator := NewComparator(scorer, keywords)

	results, err := comparator.Compare(context.Background(), []models.Document{
		{Name: "low.pdf", Text: resumeText("low")},
		{Name: "high.pdf", Text: resumeText("high")},
		{Name: "mid.pdf", Text: resumeText("mid")},
	}, "job description")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "high.pdf", results[0].ResumeName)
	assert.Equal(t, 90.0, results[0].Score)
	assert.Equal(t, "mid.pdf", results[1].ResumeName)
	assert.Equal(t, "low.pdf", results[2].ResumeName)
	assert.Equal(t, []string{"golang"}, results[0].MatchedKeywords)
}

func TestCompareKeepsInputOrderOnTies(t *testing.T) {
	scorer := &staticScorer{results: map[string]*models.SimilarityResult{
		resumeText("first"):  {Score: 50},
		resumeText("second"): {Score: 50},
	}}
	comparator := NewComparator(scorer, keywordFunc(func(string, string) []string { return nil }))

	results, err := comparator.Compare(context.Background(), []models.Document{
		{Name: "first.pdf", Text: resumeText("first")},
		{Name: "second.pdf", Text: resumeText("second")},
	}, "job description")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "first.pdf", results[0].ResumeName)
	assert.Equal(t, "second.pdf", results[1].ResumeName)
	assert.NotNil(t, results[0].MatchedKeywords)
	assert.NotNil(t, results[0].MatchReport)
}

func TestCompareSkipsShortResumes(t *testing.T) {
	comparator := NewComparator(&staticScorer{}, keywordFunc(func(string, string) []string { return nil }))

	results, err := comparator.Compare(context.Background(), []models.Document{
		{Name: "short.pdf", Text: "   " + strings.Repeat("x", 19) + "   "},
		{Name: "exact.pdf", Text: strings.Repeat("y", 20)},
	}, "job description")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "exact.pdf", results[0].ResumeName)
}

func TestCompareEmptyInput(t *testing.T) {
	comparator := NewComparator(&staticScorer{}, keywordFunc(func(string, string) []string { return nil }))

	results, err := comparator.Compare(context.Background(), nil, "job description")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCompareTruncatesReport(t *testing.T) {
	report := make([]models.MatchReportEntry, 8)
	for i := range report {
		report[i] = models.MatchReportEntry{ResumeSentence: fmt.Sprintf("sentence %d", i)}
	}
	scorer := &staticScorer{results: map[string]*models.SimilarityResult{
		resumeText("long"): {Score: 70, Report: report},
	}}
	comparator := NewComparator(scorer, keywordFunc(func(string, string) []string { return nil }))

	results, err := comparator.Compare(context.Background(), []models.Document{
		{Name: "long.pdf", Text: resumeText("long")},
	}, "job description")
	require.NoError(t, err)

	require.Len(t, results[0].MatchReport, ReportSize)
	assert.Equal(t, "sentence 0", results[0].MatchReport[0].ResumeSentence)
	assert.Equal(t, "sentence 4", results[0].MatchReport[4].ResumeSentence)
}

func TestCompareScorerFailure(t *testing.T) {
	comparator := NewComparator(&staticScorer{err: errors.New("embedding backend down")},
		keywordFunc(func(string, string) []string { return nil }))

	_, err := comparator.Compare(context.Background(), []models.Document{
		{Name: "cv.pdf", Text: resumeText("cv")},
	}, "job description")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cv.pdf")
	assert.Contains(t, err.Error(), "embedding backend down")
}

func TestTopReportNeverNil(t *testing.T) {
	assert.NotNil(t, TopReport(nil))
	assert.Len(t, TopReport(make([]models.MatchReportEntry, 3)), 3)
}
