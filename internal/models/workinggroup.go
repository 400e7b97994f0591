package models

import "time"

// WorkingGroup is an isolated knowledge container with its own configuration,
// documents, and query surface. Groups are append-only once created: there is
// no update or delete of the configuration.
type WorkingGroup struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Domain      string               `json:"domain"`
	Status      string               `json:"status"`
	CreatedBy   string               `json:"created_by"`
	Config      WorkingGroupConfig   `json:"config"`
	Metadata    WorkingGroupMetadata `json:"metadata"`
}

type WorkingGroupConfig struct {
	RAGContainer       RAGContainerConfig `json:"rag_container"`
	Model              ModelSettings      `json:"model"`
	Privacy            PrivacySettings    `json:"privacy"`
	Disclosure         DisclosureSettings `json:"disclosure"`
	DocumentProcessing ProcessingSettings `json:"document_processing"`
}

// RAGContainerConfig declares the retrieval backing store for a group.
// Only the keyword retriever is wired today; the vector settings are kept so
// group configuration round-trips without loss.
type RAGContainerConfig struct {
	VectorDB            string  `json:"vector_db"`
	EmbeddingModel      string  `json:"embedding_model"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

type ModelSettings struct {
	PrimaryModel  string  `json:"primary_model"`
	FallbackModel string  `json:"fallback_model"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"max_tokens"`
}

type PrivacySettings struct {
	Level           string `json:"level"`
	RetainUploads   bool   `json:"retain_uploads"`
	ShareExternally bool   `json:"share_externally"`
}

type DisclosureSettings struct {
	Level            string `json:"level"`
	IncludeSources   bool   `json:"include_sources"`
	IncludeModelInfo bool   `json:"include_model_info"`
}

type ProcessingSettings struct {
	AllowedFormats     []string `json:"allowed_formats"`
	MaxFileSizeBytes   int64    `json:"max_file_size_bytes"`
	DeduplicateUploads bool     `json:"deduplicate_uploads"`
	VersionDocuments   bool     `json:"version_documents"`
}

type WorkingGroupMetadata struct {
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	DocumentCount    int       `json:"document_count"`
	ParticipantCount int       `json:"participant_count"`
	LastActivity     time.Time `json:"last_activity"`
}

// Disclosure levels, most to least open.
const (
	DisclosureFull    = "full"
	DisclosurePartial = "partial"
	DisclosureNone    = "none"
)

// DefaultWorkingGroupConfig returns the configuration template new groups
// start from. Caller overrides are merged on top field by field.
func DefaultWorkingGroupConfig() WorkingGroupConfig {
	return WorkingGroupConfig{
		RAGContainer: RAGContainerConfig{
			VectorDB:            "none",
			EmbeddingModel:      "text-embedding-3-small",
			SimilarityThreshold: 0.7,
		},
		Model: ModelSettings{
			PrimaryModel:  "gpt-4o-mini",
			FallbackModel: "llama3.1:8b",
			Temperature:   0.7,
			MaxTokens:     1024,
		},
		Privacy: PrivacySettings{
			Level:         "selective",
			RetainUploads: true,
		},
		Disclosure: DisclosureSettings{
			Level:            DisclosurePartial,
			IncludeSources:   true,
			IncludeModelInfo: true,
		},
		DocumentProcessing: ProcessingSettings{
			AllowedFormats:   []string{"text/plain", "text/markdown", "application/pdf", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/html"},
			MaxFileSizeBytes: 20 << 20,
		},
	}
}

// MergeConfig deep-merges override onto base. Zero-valued override fields
// leave the base value in place, so callers only specify what they change.
func MergeConfig(base, override WorkingGroupConfig) WorkingGroupConfig {
	out := base

	if override.RAGContainer.VectorDB != "" {
		out.RAGContainer.VectorDB = override.RAGContainer.VectorDB
	}
	if override.RAGContainer.EmbeddingModel != "" {
		out.RAGContainer.EmbeddingModel = override.RAGContainer.EmbeddingModel
	}
	if override.RAGContainer.SimilarityThreshold != 0 {
		out.RAGContainer.SimilarityThreshold = override.RAGContainer.SimilarityThreshold
	}

	if override.Model.PrimaryModel != "" {
		out.Model.PrimaryModel = override.Model.PrimaryModel
	}
	if override.Model.FallbackModel != "" {
		out.Model.FallbackModel = override.Model.FallbackModel
	}
	if override.Model.Temperature != 0 {
		out.Model.Temperature = override.Model.Temperature
	}
	if override.Model.MaxTokens != 0 {
		out.Model.MaxTokens = override.Model.MaxTokens
	}

	if override.Privacy.Level != "" {
		out.Privacy.Level = override.Privacy.Level
	}
	if override.Privacy.RetainUploads {
		out.Privacy.RetainUploads = true
	}
	if override.Privacy.ShareExternally {
		out.Privacy.ShareExternally = true
	}

	if override.Disclosure.Level != "" {
		out.Disclosure.Level = override.Disclosure.Level
	}
	if override.Disclosure.IncludeSources {
		out.Disclosure.IncludeSources = true
	}
	if override.Disclosure.IncludeModelInfo {
		out.Disclosure.IncludeModelInfo = true
	}

	if len(override.DocumentProcessing.AllowedFormats) > 0 {
		out.DocumentProcessing.AllowedFormats = override.DocumentProcessing.AllowedFormats
	}
	if override.DocumentProcessing.MaxFileSizeBytes != 0 {
		out.DocumentProcessing.MaxFileSizeBytes = override.DocumentProcessing.MaxFileSizeBytes
	}
	if override.DocumentProcessing.DeduplicateUploads {
		out.DocumentProcessing.DeduplicateUploads = true
	}
	if override.DocumentProcessing.VersionDocuments {
		out.DocumentProcessing.VersionDocuments = true
	}

	return out
}
