// Package ingest validates and records document uploads against a working
// group. Processing is synchronous: a document leaves Upload either
// completed or rejected, there is no background step.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/openagora/agora/internal/metrics"
	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile         = errors.New("file is empty")
)

// FileUpload is the raw multipart payload handed to the pipeline
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Content     []byte
}

type Store interface {
	storage.GroupStore
	storage.DocumentStore
}

type Pipeline struct {
	store  Store
	scorer Scorer
	logger *zap.Logger
}

func NewPipeline(store Store, scorer Scorer, logger *zap.Logger) *Pipeline {
	if scorer == nil {
		scorer = NewHeuristicScorer(5)
	}
	return &Pipeline{store: store, scorer: scorer, logger: logger}
}

// Upload ingests one file into a working group. Validation happens before
// any state mutation: a rejected upload leaves the group's document count
// untouched and creates no record. On acceptance the document is stored with
// status completed and the group counters advance.
func (p *Pipeline) Upload(ctx context.Context, groupID string, file FileUpload, meta models.DocumentMetadata, modelOverride string) (*models.DocumentUpload, error) {
	group, err := p.store.GetGroup(ctx, groupID)
	if err != nil {
		metrics.DocumentUploads.WithLabelValues("group_not_found").Inc()
		return nil, err
	}

	if err := validateFile(file, group.Config.DocumentProcessing); err != nil {
		metrics.DocumentUploads.WithLabelValues("rejected").Inc()
		p.logger.Warn("Rejected document upload",
			zap.String("group_id", groupID),
			zap.String("file_name", file.Name),
			zap.String("content_type", file.ContentType),
			zap.Error(err))
		return nil, err
	}

	content := extractText(file)

	modelUsed := modelOverride
	if modelUsed == "" {
		modelUsed = group.Config.Model.PrimaryModel
	}

	quality, keywords := p.scorer.Score(content)
	now := time.Now()

	doc := &models.DocumentUpload{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		FileName:    file.Name,
		FileSize:    file.Size,
		ContentType: file.ContentType,
		Content:     content,
		Metadata:    meta,
		Status:      models.ProcessingCompleted,
		Results: models.ProcessingResults{
			QualityScore: quality,
			Keywords:     keywords,
			ModelUsed:    modelUsed,
			WordCount:    len(strings.Fields(content)),
		},
		Disclosure: &models.IntelligenceDisclosure{
			ModelInfo: models.ModelInfo{
				PrimaryModel: modelUsed,
				Provider:     "ingestion",
			},
			ProcessingSteps: []string{"format_validation", "text_extraction", "quality_scoring", "keyword_extraction"},
			Confidence: models.ConfidenceScores{
				Overall: quality,
			},
			Level:       group.Config.Disclosure.Level,
			GeneratedAt: now,
		},
		UploadedAt: now,
	}

	if err := p.store.SaveDocument(ctx, doc); err != nil {
		metrics.DocumentUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	if err := p.store.TouchGroup(ctx, groupID, 1); err != nil {
		return nil, fmt.Errorf("failed to update group counters: %w", err)
	}

	metrics.DocumentUploads.WithLabelValues("completed").Inc()
	p.logger.Info("Ingested document",
		zap.String("group_id", groupID),
		zap.String("document_id", doc.ID),
		zap.String("file_name", file.Name),
		zap.Float64("quality", quality),
		zap.Int("keywords", len(keywords)))
	return doc, nil
}

// Documents returns the uploads recorded for a working group
func (p *Pipeline) Documents(ctx context.Context, groupID string) ([]*models.DocumentUpload, error) {
	if _, err := p.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return p.store.ListDocuments(ctx, groupID)
}

func validateFile(file FileUpload, settings models.ProcessingSettings) error {
	if len(file.Content) == 0 {
		return ErrEmptyFile
	}
	if settings.MaxFileSizeBytes > 0 && file.Size > settings.MaxFileSizeBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, file.Size)
	}

	declared := normalizeContentType(file.ContentType)
	for _, allowed := range settings.AllowedFormats {
		if declared == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, file.ContentType)
}

// normalizeContentType drops parameters like charset and maps the plain
// markdown alias onto the canonical type.
func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "text/x-markdown" {
		ct = "text/markdown"
	}
	return ct
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// extractText pulls plain text out of the upload. HTML is stripped of tags;
// other formats are taken as UTF-8 text when valid, otherwise the raw bytes
// are kept for later reprocessing.
func extractText(file FileUpload) string {
	raw := string(file.Content)
	switch normalizeContentType(file.ContentType) {
	case "text/html":
		return strings.TrimSpace(htmlTags.ReplaceAllString(raw, " "))
	default:
		if utf8.ValidString(raw) {
			return strings.TrimSpace(raw)
		}
		return raw
	}
}
