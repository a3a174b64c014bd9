package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

type lengthScorer struct{}

func (lengthScorer) Score(_ context.Context, resumeText, _ string) (*models.SimilarityResult, error) {
	return &models.SimilarityResult{
		Score:  float64(len(resumeText) % 100),
		Report: []models.MatchReportEntry{},
	}, nil
}

func testPipeline() pipeline {
	return pipeline{
		loader: services.NewDocumentLoader(
			services.NewTextExtractor(services.NewPDFParserService(), nil),
			textproc.NewRelevanceFilter(nil),
		),
		comparator: services.NewComparator(lengthScorer{},
			textproc.NewKeywordExtractor(textproc.FullTokenizer, textproc.DefaultVocabulary())),
		minContentLength: 50,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCompareWritesRankedJSON(t *testing.T) {
	inputs := t.TempDir()
	scratchRoot := t.TempDir()

	jd := writeFile(t, inputs, "job.txt", "Hiring a Python backend engineer to build Docker and Kubernetes services.")
	cv := writeFile(t, inputs, "cv.txt", "Python backend engineer who ships Docker and Kubernetes services daily.")

	var out bytes.Buffer
	require.NoError(t, testPipeline().compare(context.Background(), scratchRoot, jd, []string{cv}, &out))

	var response models.MultiMatchResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "cv.txt", response.Results[0].ResumeName)

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompareCleansUpOnError(t *testing.T) {
	inputs := t.TempDir()
	scratchRoot := t.TempDir()

	jd := writeFile(t, inputs, "job.txt", "Too short.")
	cv := writeFile(t, inputs, "cv.txt", strings.Repeat("Python backend engineer. ", 5))

	err := testPipeline().compare(context.Background(), scratchRoot, jd, []string{cv}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompareMissingFile(t *testing.T) {
	scratchRoot := t.TempDir()

	err := testPipeline().compare(context.Background(), scratchRoot, filepath.Join(scratchRoot, "missing.txt"), []string{"also-missing.txt"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}
