package query

import (
	"testing"

	"github.com/openagora/agora/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id, content string, keywords ...string) *models.DocumentUpload {
	return &models.DocumentUpload{
		ID:      id,
		Content: content,
		Results: models.ProcessingResults{Keywords: keywords},
	}
}

func TestKeywordRetriever_RanksByOverlap(t *testing.T) {
	docs := []*models.DocumentUpload{
		doc("weak", "nothing relevant here at all"),
		doc("strong", "privacy policy and consent management for data subjects"),
		doc("partial", "general notes mentioning privacy once"),
	}

	ranked := NewKeywordRetriever().Retrieve("privacy consent policy", docs, 0, 0)

	require.Len(t, ranked, 3, "zero threshold keeps every document")
	assert.Equal(t, "strong", ranked[0].Doc.ID)
	assert.Equal(t, "partial", ranked[1].Doc.ID)
	assert.Equal(t, "weak", ranked[2].Doc.ID)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestKeywordRetriever_ThresholdFilters(t *testing.T) {
	docs := []*models.DocumentUpload{
		doc("match", "privacy consent policy text"),
		doc("miss", "unrelated content"),
	}

	ranked := NewKeywordRetriever().Retrieve("privacy consent policy", docs, 0.5, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, "match", ranked[0].Doc.ID)
}

func TestKeywordRetriever_MaxResultsTruncates(t *testing.T) {
	docs := []*models.DocumentUpload{
		doc("a", "privacy"), doc("b", "privacy"), doc("c", "privacy"),
	}

	ranked := NewKeywordRetriever().Retrieve("privacy", docs, 0, 2)
	assert.Len(t, ranked, 2)
}

func TestKeywordRetriever_MatchesExtractedKeywords(t *testing.T) {
	d := doc("kw", "some body text", "governance")

	ranked := NewKeywordRetriever().Retrieve("governance", []*models.DocumentUpload{d}, 0, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1.0, ranked[0].Score)
}

func TestKeywordRetriever_EmptyQueryKeepsDocuments(t *testing.T) {
	docs := []*models.DocumentUpload{doc("a", "text")}

	ranked := NewKeywordRetriever().Retrieve("", docs, 0, 0)
	assert.Len(t, ranked, 1)
}
