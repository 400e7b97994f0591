package models

import "time"

// ChatMessage represents a single message in an agent conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	AgentType string    `json:"agent_type,omitempty"`
	SessionID string    `json:"session_id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptMetadata carries display information saved alongside a transcript
type TranscriptMetadata struct {
	Title  string   `json:"title,omitempty"`
	Agents []string `json:"agents,omitempty"`
}

// Transcript is a full snapshot of a conversation for one (project, session)
// pair. Each save writes a new record; load returns the most recent one, so
// two concurrent saves race and the later write wins.
type Transcript struct {
	ID        string             `json:"id"`
	ProjectID string             `json:"project_id"`
	SessionID string             `json:"session_id"`
	Messages  []ChatMessage      `json:"messages"`
	Metadata  TranscriptMetadata `json:"metadata"`
	SavedAt   time.Time          `json:"saved_at"`
}

// TranscriptSummary is the listing view of a saved transcript
type TranscriptSummary struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title,omitempty"`
	MessageCount int       `json:"message_count"`
	SavedAt      time.Time `json:"saved_at"`
}
