package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type MatchRun struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Kind               MatchKind     `gorm:"type:text;not null" json:"kind"`
	JobDescriptionName string        `gorm:"type:text" json:"job_description_name"`
	TotalResumes       int           `gorm:"not null;default:0" json:"total_resumes"`
	CreatedAt          time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Records            []MatchRecord `gorm:"foreignKey:MatchRunID;constraint:OnDelete:CASCADE" json:"records"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}

type MatchRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MatchRunID      uuid.UUID `gorm:"type:uuid;not null;index" json:"match_run_id"`
	Rank            int       `gorm:"not null" json:"rank"`
	ResumeName      string    `gorm:"type:text" json:"resume_name"`
	Score           float64   `gorm:"type:decimal(5,2)" json:"score"`
	MatchedKeywords string    `gorm:"type:text" json:"matched_keywords"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}

// Keywords splits the stored comma-joined keyword list.
func (r MatchRecord) Keywords() []string {
	if r.MatchedKeywords == "" {
		return []string{}
	}
	return strings.Split(r.MatchedKeywords, ",")
}

// NewMatchRun builds a history record from served comparison results,
// ranked in the order given.
func NewMatchRun(kind MatchKind, jdName string, results []ComparisonResult) *MatchRun {
	run := &MatchRun{
		ID:                 uuid.New(),
		Kind:               kind,
		JobDescriptionName: jdName,
		TotalResumes:       len(results),
		CreatedAt:          time.Now(),
	}
	for i, result := range results {
		run.Records = append(run.Records, MatchRecord{
			ID:              uuid.New(),
			MatchRunID:      run.ID,
			Rank:            i + 1,
			ResumeName:      result.ResumeName,
			Score:           result.Score,
			MatchedKeywords: strings.Join(result.MatchedKeywords, ","),
			CreatedAt:       run.CreatedAt,
		})
	}
	return run
}
