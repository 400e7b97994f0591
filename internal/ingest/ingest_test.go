package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*Pipeline, *storage.MemoryStorage, *models.WorkingGroup) {
	t.Helper()
	store := storage.NewMemoryStorage()
	group := &models.WorkingGroup{
		ID:     "wg-1",
		Name:   "Privacy Research",
		Status: "active",
		Config: models.DefaultWorkingGroupConfig(),
		Metadata: models.WorkingGroupMetadata{
			CreatedAt:    time.Now().Add(-time.Hour),
			LastActivity: time.Now().Add(-time.Hour),
		},
	}
	require.NoError(t, store.CreateGroup(context.Background(), group))
	return NewPipeline(store, NewHeuristicScorer(5), zap.NewNop()), store, group
}

func textFile(name, content string) FileUpload {
	return FileUpload{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: "text/plain",
		Content:     []byte(content),
	}
}

func TestUpload_Success(t *testing.T) {
	pipeline, store, group := setup(t)
	ctx := context.Background()

	doc, err := pipeline.Upload(ctx, group.ID,
		textFile("notes.txt", "Data minimization and consent records for privacy compliance reviews."),
		models.DocumentMetadata{Title: "Notes"}, "")
	require.NoError(t, err)

	assert.Equal(t, models.ProcessingCompleted, doc.Status)
	assert.Equal(t, group.Config.Model.PrimaryModel, doc.Results.ModelUsed)
	assert.NotEmpty(t, doc.Results.Keywords)
	assert.Greater(t, doc.Results.QualityScore, 0.0)
	require.NotNil(t, doc.Disclosure)

	// Exactly one document recorded, count incremented, activity advanced.
	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Metadata.DocumentCount)
	assert.True(t, got.Metadata.LastActivity.After(group.Metadata.CreatedAt))

	docs, err := store.ListDocuments(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestUpload_ModelOverride(t *testing.T) {
	pipeline, _, group := setup(t)

	doc, err := pipeline.Upload(context.Background(), group.ID,
		textFile("a.txt", "content for analysis"), models.DocumentMetadata{}, "model-x")
	require.NoError(t, err)
	assert.Equal(t, "model-x", doc.Results.ModelUsed)
}

func TestUpload_UnsupportedFormatRejectedBeforeMutation(t *testing.T) {
	pipeline, store, group := setup(t)
	ctx := context.Background()

	file := FileUpload{
		Name:        "payload.bin",
		Size:        4,
		ContentType: "application/octet-stream",
		Content:     []byte{0x00, 0x01, 0x02, 0x03},
	}
	_, err := pipeline.Upload(ctx, group.ID, file, models.DocumentMetadata{}, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// Nothing changed: no record, count untouched.
	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Metadata.DocumentCount)

	docs, err := store.ListDocuments(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpload_AllowedFormats(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"plain text", "text/plain", false},
		{"plain text with charset", "text/plain; charset=utf-8", false},
		{"markdown", "text/markdown", false},
		{"markdown alias", "text/x-markdown", false},
		{"pdf", "application/pdf", false},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"html", "text/html", false},
		{"png", "image/png", true},
		{"zip", "application/zip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline, _, group := setup(t)
			file := FileUpload{
				Name:        "doc",
				Size:        12,
				ContentType: tt.contentType,
				Content:     []byte("test content"),
			}
			_, err := pipeline.Upload(context.Background(), group.ID, file, models.DocumentMetadata{}, "")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpload_GroupNotFound(t *testing.T) {
	pipeline, _, _ := setup(t)

	_, err := pipeline.Upload(context.Background(), "missing",
		textFile("a.txt", "content"), models.DocumentMetadata{}, "")
	assert.ErrorIs(t, err, storage.ErrGroupNotFound)
}

func TestUpload_EmptyFileRejected(t *testing.T) {
	pipeline, _, group := setup(t)

	file := FileUpload{Name: "empty.txt", ContentType: "text/plain"}
	_, err := pipeline.Upload(context.Background(), group.ID, file, models.DocumentMetadata{}, "")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestUpload_FileTooLarge(t *testing.T) {
	pipeline, _, group := setup(t)
	group.Config.DocumentProcessing.MaxFileSizeBytes = 10

	file := textFile("big.txt", "this content is longer than ten bytes")
	_, err := pipeline.Upload(context.Background(), group.ID, file, models.DocumentMetadata{}, "")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestExtractText_StripsHTML(t *testing.T) {
	file := FileUpload{
		Name:        "page.html",
		ContentType: "text/html",
		Content:     []byte("<html><body><h1>Title</h1><p>Body text</p></body></html>"),
	}
	text := extractText(file)
	assert.NotContains(t, text, "<")
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Body text")
}

func TestHeuristicScorer(t *testing.T) {
	scorer := NewHeuristicScorer(3)

	quality, keywords := scorer.Score("privacy privacy privacy consent consent minimization the and for")
	assert.Greater(t, quality, 0.0)
	require.NotEmpty(t, keywords)
	assert.Equal(t, "privacy", keywords[0], "most frequent term ranks first")
	assert.LessOrEqual(t, len(keywords), 3)
	assert.NotContains(t, keywords, "the")
}
