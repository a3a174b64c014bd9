package services

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

// Embedder maps sentences to embedding vectors, one per sentence, in order.
type Embedder interface {
	EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error)
}

type Scorer interface {
	Score(ctx context.Context, resumeText, jdText string) (*models.SimilarityResult, error)
}

type similarityScorer struct {
	splitter textproc.SentenceSplitter
	embedder Embedder
}

func NewScorer(splitter textproc.SentenceSplitter, embedder Embedder) Scorer {
	return &similarityScorer{
		splitter: splitter,
		embedder: embedder,
	}
}

// Score computes the bidirectional sentence similarity of a resume and a job
// description. Every resume sentence is matched to its closest JD sentence and
// every JD sentence to its closest resume sentence; the two mean best-match
// similarities are averaged and scaled to 0-100. If either text has no
// sentences the score is 0 with an empty report.
func (s *similarityScorer) Score(ctx context.Context, resumeText, jdText string) (*models.SimilarityResult, error) {
	resumeSentences := s.splitter.Split(resumeText)
	jdSentences := s.splitter.Split(jdText)

	if len(resumeSentences) == 0 || len(jdSentences) == 0 {
		return &models.SimilarityResult{
			Score:  0,
			Report: []models.MatchReportEntry{},
		}, nil
	}

	resumeVectors, err := s.embed(ctx, resumeSentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	jdVectors, err := s.embed(ctx, jdSentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	if err := checkDimensions(resumeVectors, jdVectors); err != nil {
		return nil, err
	}

	sim := cosineMatrix(resumeVectors, jdVectors)
	rows, cols := sim.Dims()

	resumeBest := make([]float64, rows)
	report := make([]models.MatchReportEntry, rows)
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, sim)
		j := floats.MaxIdx(row)
		resumeBest[i] = row[j]
		report[i] = models.MatchReportEntry{
			ResumeSentence:    resumeSentences[i],
			MatchedJDSentence: jdSentences[j],
			Score:             toPercent(row[j]),
		}
	}

	jdBest := make([]float64, cols)
	for j := 0; j < cols; j++ {
		jdBest[j] = floats.Max(mat.Col(nil, j, sim))
	}

	resumeToJD := floats.Sum(resumeBest) / float64(rows)
	jdToResume := floats.Sum(jdBest) / float64(cols)

	return &models.SimilarityResult{
		Score:  toPercent((resumeToJD + jdToResume) / 2),
		Report: report,
	}, nil
}

func (s *similarityScorer) embed(ctx context.Context, sentences []string) ([][]float64, error) {
	vectors, err := s.embedder.EmbedSentences(ctx, sentences)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(sentences), len(vectors))
	}

	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = unitVector(v)
	}
	return out, nil
}

// cosineMatrix expects unit vectors; entries are clamped to [-1, 1].
func cosineMatrix(a, b [][]float64) *mat.Dense {
	m := mat.NewDense(len(a), len(b), nil)
	for i := range a {
		for j := range b {
			m.Set(i, j, clamp(floats.Dot(a[i], b[j]), -1, 1))
		}
	}
	return m
}

func checkDimensions(a, b [][]float64) error {
	dim := len(a[0])
	for _, vectors := range [][][]float64{a, b} {
		for _, v := range vectors {
			if len(v) != dim {
				return fmt.Errorf("embedding dimension mismatch: %d vs %d", len(v), dim)
			}
		}
	}
	return nil
}

// unitVector converts to float64 and scales to unit length. Zero vectors are
// left as zeros.
func unitVector(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}

	norm := floats.Norm(out, 2)
	if norm > 0 {
		floats.Scale(1/norm, out)
	}
	return out
}

// toPercent scales a similarity to [0, 100] rounded to two decimals.
func toPercent(similarity float64) float64 {
	return math.Round(clamp(similarity*100, 0, 100)*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
