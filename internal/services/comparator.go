package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

const (
	// minComparableLength: resumes with less trimmed text are skipped.
	minComparableLength = 20
	// ReportSize caps the match report entries returned per resume.
	ReportSize = 5
)

// KeywordMatcher returns keywords shared by a resume and a job description.
type KeywordMatcher interface {
	Extract(resumeText, jdText string) []string
}

type Comparator interface {
	Compare(ctx context.Context, resumes []models.Document, jdText string) ([]models.ComparisonResult, error)
}

type resumeComparator struct {
	scorer   Scorer
	keywords KeywordMatcher
}

func NewComparator(scorer Scorer, keywords KeywordMatcher) Comparator {
	return &resumeComparator{
		scorer:   scorer,
		keywords: keywords,
	}
}

// Compare scores every resume against the job description and returns the
// results by descending score, ties in input order. Resumes with under 20
// characters of text are left out.
func (c *resumeComparator) Compare(ctx context.Context, resumes []models.Document, jdText string) ([]models.ComparisonResult, error) {
	results := make([]models.ComparisonResult, 0, len(resumes))

	for _, resume := range resumes {
		if textproc.Length(strings.TrimSpace(resume.Text)) < minComparableLength {
			continue
		}

		similarity, err := c.scorer.Score(ctx, resume.Text, jdText)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", resume.Name, err)
		}

		keywords := c.keywords.Extract(resume.Text, jdText)
		if keywords == nil {
			keywords = []string{}
		}

		results = append(results, models.ComparisonResult{
			ResumeName:      resume.Name,
			Score:           similarity.Score,
			MatchedKeywords: keywords,
			MatchReport:     TopReport(similarity.Report),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// TopReport returns the first ReportSize entries, never nil.
func TopReport(report []models.MatchReportEntry) []models.MatchReportEntry {
	if len(report) > ReportSize {
		report = report[:ReportSize]
	}
	if report == nil {
		return []models.MatchReportEntry{}
	}
	return report
}
