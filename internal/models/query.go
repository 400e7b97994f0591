package models

import "time"

// Source attributes part of an answer to one retrieved document
type Source struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Excerpt   string  `json:"excerpt"`
	Relevance float64 `json:"relevance"`
}

// ConfidenceScores breaks overall confidence into the dimensions we disclose
type ConfidenceScores struct {
	Overall    float64 `json:"overall"`
	Factual    float64 `json:"factual"`
	Contextual float64 `json:"contextual"`
	Temporal   float64 `json:"temporal"`
	Source     float64 `json:"source"`
	Reasoning  float64 `json:"reasoning"`
}

// ModelInfo identifies the model chain that produced an answer
type ModelInfo struct {
	PrimaryModel  string         `json:"primary_model"`
	FallbackModel string         `json:"fallback_model,omitempty"`
	Provider      string         `json:"provider"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// IntelligenceDisclosure describes which model, sources, and confidence
// values produced an answer. ReasoningChain is carried for shape but stays
// empty: no chain-of-thought is captured.
type IntelligenceDisclosure struct {
	ModelInfo         ModelInfo        `json:"model_info"`
	ProcessingSteps   []string         `json:"processing_steps"`
	SourceAttribution []Source         `json:"source_attribution"`
	Confidence        ConfidenceScores `json:"confidence"`
	ReasoningChain    []string         `json:"reasoning_chain"`
	Level             string           `json:"level"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// QueryResultMetadata describes how a query was served
type QueryResultMetadata struct {
	GroupID          string  `json:"group_id"`
	ModelUsed        string  `json:"model_used"`
	ProcessingTimeMs int64   `json:"processing_time_ms"`
	Confidence       float64 `json:"confidence"`
	LLMUsed          bool    `json:"llm_used"`
}

// QueryResult is the answer to a working-group query
type QueryResult struct {
	Response   string                  `json:"response"`
	Sources    []Source                `json:"sources"`
	Disclosure *IntelligenceDisclosure `json:"disclosure,omitempty"`
	Metadata   QueryResultMetadata     `json:"metadata"`
}
