package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"alfredoptarigan/resume-matcher/internal/models"
)

// pipeSplitter splits on "|" so tests control sentence boundaries.
type pipeSplitter struct{}

func (pipeSplitter) Split(text string) []string {
	var out []string
	for _, part := range strings.Split(text, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mapEmbedder returns a fixed vector per sentence.
type mapEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   [][]string
	err     error
}

func (m *mapEmbedder) EmbedSentences(_ context.Context, sentences []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), sentences...))
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	out := make([][]float32, 0, len(sentences))
	for _, s := range sentences {
		v, ok := m.vectors[s]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", s)
		}
		out = append(out, v)
	}
	return out, nil
}

type embedFunc func(ctx context.Context, sentences []string) ([][]float32, error)

func (f embedFunc) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	return f(ctx, sentences)
}

// memoryStorage is an in-memory StorageService that records deletes.
type memoryStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	deleted   []string
	failFor   map[string]bool
	saveError error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte), failFor: make(map[string]bool)}
}

func (m *memoryStorage) Save(_ context.Context, fileType, filename string, data []byte) (string, error) {
	if m.saveError != nil {
		return "", m.saveError
	}
	key := fileType + "/" + filename

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return key, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if m.failFor[key] {
		return fmt.Errorf("delete %s failed", key)
	}
	delete(m.files, key)
	return nil
}

type fakeOCR struct {
	text     string
	mimeType string
	calls    int
}

func (f *fakeOCR) ExtractImageText(_ context.Context, _ []byte, mimeType string) (string, error) {
	f.calls++
	f.mimeType = mimeType
	return f.text, nil
}

// staticScorer returns a configured result per resume text.
type staticScorer struct {
	results map[string]*models.SimilarityResult
	err     error
}

func (s *staticScorer) Score(_ context.Context, resumeText, _ string) (*models.SimilarityResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.results[resumeText]; ok {
		return r, nil
	}
	return &models.SimilarityResult{Report: []models.MatchReportEntry{}}, nil
}

type keywordFunc func(resumeText, jdText string) []string

func (f keywordFunc) Extract(resumeText, jdText string) []string {
	return f(resumeText, jdText)
}
