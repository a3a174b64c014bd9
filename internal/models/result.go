package models

import "time"

type MultiMatchResponse struct {
	Success      bool               `json:"success"`
	Results      []ComparisonResult `json:"results"`
	TotalResumes int                `json:"total_resumes"`
	MatchID      string             `json:"match_id,omitempty"`
}

type SingleMatchResponse struct {
	FinalScore      float64            `json:"final_score"`
	MatchedKeywords []string           `json:"matched_keywords"`
	MatchReport     []MatchReportEntry `json:"match_report"`
	MatchID         string             `json:"match_id,omitempty"`
}

// InsufficientContentResponse is returned with 400 when a document has too
// little usable text to score.
type InsufficientContentResponse struct {
	Error           string  `json:"error"`
	MatchPercentage float64 `json:"match_percentage"`
	Warning         string  `json:"warning"`
}

type MatchRunResponse struct {
	ID                 string              `json:"id"`
	Kind               string              `json:"kind"`
	JobDescriptionName string              `json:"job_description_name"`
	TotalResumes       int                 `json:"total_resumes"`
	CreatedAt          time.Time           `json:"created_at"`
	Results            []MatchRecordResult `json:"results"`
}

type MatchRecordResult struct {
	Rank            int      `json:"rank"`
	ResumeName      string   `json:"resume_name"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
}
