// Package query answers working-group queries by combining document
// retrieval, the provider fallback chain, and an intelligence-disclosure
// record describing how the answer was produced.
package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openagora/agora/internal/llm"
	"github.com/openagora/agora/internal/metrics"
	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

const maxExcerptLen = 200

type Store interface {
	storage.GroupStore
	storage.DocumentStore
}

// Options tune one query. Zero values mean: group's primary model, no
// disclosure, all documents, no similarity filtering.
type Options struct {
	ModelOverride       string
	IncludeDisclosure   bool
	MaxResults          int
	SimilarityThreshold float64
}

type Engine struct {
	store     Store
	chain     *llm.Chain
	retriever Retriever
	logger    *zap.Logger
}

func NewEngine(store Store, chain *llm.Chain, retriever Retriever, logger *zap.Logger) *Engine {
	if retriever == nil {
		retriever = NewKeywordRetriever()
	}
	return &Engine{store: store, chain: chain, retriever: retriever, logger: logger}
}

// Query resolves the group, ranks its documents against the query, generates
// an answer through the fallback chain with the group's domain framing, and
// assembles sources plus the disclosure record.
func (e *Engine) Query(ctx context.Context, groupID, queryText string, opts Options) (*models.QueryResult, error) {
	start := time.Now()

	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	docs, err := e.store.ListDocuments(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	ranked := e.retriever.Retrieve(queryText, docs, opts.SimilarityThreshold, opts.MaxResults)

	model := opts.ModelOverride
	if model == "" {
		model = group.Config.Model.PrimaryModel
	}

	resp := e.chain.Complete(ctx, llm.Request{
		Model:       model,
		System:      systemPrompt(group),
		Message:     userPrompt(queryText, ranked),
		Temperature: group.Config.Model.Temperature,
		MaxTokens:   group.Config.Model.MaxTokens,
	})
	if !resp.LLMUsed {
		resp.Content = fallbackAnswer(group, len(ranked))
	}

	sources := buildSources(ranked)

	result := &models.QueryResult{
		Response: resp.Content,
		Sources:  sources,
		Metadata: models.QueryResultMetadata{
			GroupID:          group.ID,
			ModelUsed:        resp.Model,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Confidence:       resp.Confidence,
			LLMUsed:          resp.LLMUsed,
		},
	}

	if opts.IncludeDisclosure && group.Config.Disclosure.Level != models.DisclosureNone {
		result.Disclosure = buildDisclosure(group, model, resp, sources)
	}

	metrics.GroupQueries.WithLabelValues(strconv.FormatBool(resp.LLMUsed)).Inc()
	e.logger.Info("Answered working-group query",
		zap.String("group_id", group.ID),
		zap.Int("sources", len(sources)),
		zap.Bool("llm_used", resp.LLMUsed),
		zap.String("model", resp.Model))
	return result, nil
}

func systemPrompt(group *models.WorkingGroup) string {
	return fmt.Sprintf("You answer questions for the %q working group, whose domain is %s. "+
		"Base your answer on the provided documents and say so when they do not cover the question.",
		group.Name, group.Domain)
}

func userPrompt(queryText string, ranked []Ranked) string {
	var b strings.Builder
	if len(ranked) > 0 {
		b.WriteString("Documents:\n")
		for i, r := range ranked {
			fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, documentTitle(r.Doc), excerpt(r.Doc.Content, 1500))
		}
	}
	b.WriteString("Question: ")
	b.WriteString(queryText)
	return b.String()
}

func fallbackAnswer(group *models.WorkingGroup, sourceCount int) string {
	return fmt.Sprintf("The language model backends are currently unavailable, so no generated "+
		"answer could be produced for the %q working group. %d matching document(s) are attached "+
		"as sources; please retry shortly.", group.Name, sourceCount)
}

func buildSources(ranked []Ranked) []models.Source {
	sources := make([]models.Source, 0, len(ranked))
	for _, r := range ranked {
		relevance := r.Score
		if relevance == 0 {
			// Unranked retrieval still attributes the document, with a
			// stub score so consumers can tell it apart from real ranking.
			relevance = 0.5
		}
		sources = append(sources, models.Source{
			ID:        r.Doc.ID,
			Title:     documentTitle(r.Doc),
			Excerpt:   excerpt(r.Doc.Content, maxExcerptLen),
			Relevance: relevance,
		})
	}
	return sources
}

func buildDisclosure(group *models.WorkingGroup, requestedModel string, resp *llm.Response, sources []models.Source) *models.IntelligenceDisclosure {
	confidence := models.ConfidenceScores{
		Overall:    resp.Confidence,
		Factual:    resp.Confidence,
		Contextual: resp.Confidence * 0.9,
		Temporal:   resp.Confidence * 0.8,
		Source:     sourceConfidence(sources),
		Reasoning:  resp.Confidence * 0.85,
	}

	steps := []string{"group_resolution", "document_retrieval", "answer_generation", "source_attribution"}
	if !resp.LLMUsed {
		steps = append(steps, "static_fallback")
	}

	return &models.IntelligenceDisclosure{
		ModelInfo: models.ModelInfo{
			PrimaryModel:  requestedModel,
			FallbackModel: group.Config.Model.FallbackModel,
			Provider:      resp.Provider,
			Parameters: map[string]any{
				"temperature": group.Config.Model.Temperature,
				"max_tokens":  group.Config.Model.MaxTokens,
			},
		},
		ProcessingSteps:   steps,
		SourceAttribution: sources,
		Confidence:        confidence,
		// No chain-of-thought capture: the reasoning chain stays empty.
		ReasoningChain: []string{},
		Level:          group.Config.Disclosure.Level,
		GeneratedAt:    time.Now(),
	}
}

func sourceConfidence(sources []models.Source) float64 {
	if len(sources) == 0 {
		return 0.2
	}
	var sum float64
	for _, s := range sources {
		sum += s.Relevance
	}
	return sum / float64(len(sources))
}

func documentTitle(doc *models.DocumentUpload) string {
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	return doc.FileName
}

func excerpt(content string, maxLen int) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
