package models

import "time"

type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingRunning   ProcessingStatus = "processing"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// DocumentMetadata holds the descriptive fields supplied with an upload
type DocumentMetadata struct {
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ProcessingResults is the quality/processing metadata computed at ingestion
type ProcessingResults struct {
	QualityScore float64  `json:"quality_score"`
	Keywords     []string `json:"keywords"`
	ModelUsed    string   `json:"model_used"`
	WordCount    int      `json:"word_count"`
}

// DocumentUpload is one ingested document owned by a working group.
// Status is terminal once completed or failed.
type DocumentUpload struct {
	ID          string                  `json:"id"`
	GroupID     string                  `json:"group_id"`
	FileName    string                  `json:"file_name"`
	FileSize    int64                   `json:"file_size"`
	ContentType string                  `json:"content_type"`
	Content     string                  `json:"content"`
	Metadata    DocumentMetadata        `json:"metadata"`
	Status      ProcessingStatus        `json:"status"`
	Results     ProcessingResults       `json:"results"`
	Disclosure  *IntelligenceDisclosure `json:"disclosure,omitempty"`
	UploadedAt  time.Time               `json:"uploaded_at"`
}
