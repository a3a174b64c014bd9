package models

// Document is an uploaded resume or job description after text extraction.
// Text is the relevance-filtered, cleaned form used for scoring.
type Document struct {
	Name    string
	RawText string
	Text    string
}
