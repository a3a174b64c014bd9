package models

type MatchReportEntry struct {
	ResumeSentence    string  `json:"resume_sentence"`
	MatchedJDSentence string  `json:"matched_jd_sentence"`
	Score             float64 `json:"score"`
}

// SimilarityResult is the outcome of scoring one resume against one job description.
type SimilarityResult struct {
	Score  float64
	Report []MatchReportEntry
}

type ComparisonResult struct {
	ResumeName      string             `json:"resume_name"`
	Score           float64            `json:"score"`
	MatchedKeywords []string           `json:"matched_keywords"`
	MatchReport     []MatchReportEntry `json:"match_report"`
}

type MatchKind string

const (
	MatchKindSingle MatchKind = "single"
	MatchKindMulti  MatchKind = "multi"
)

// MatchEvent is published after a match request has been served.
type MatchEvent struct {
	MatchID            string             `json:"match_id,omitempty"`
	Kind               MatchKind          `json:"kind"`
	JobDescriptionName string             `json:"job_description_name"`
	Results            []MatchEventResume `json:"results"`
	OccurredAt         string             `json:"occurred_at"`
}

type MatchEventResume struct {
	ResumeName string  `json:"resume_name"`
	Score      float64 `json:"score"`
}
