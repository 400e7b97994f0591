package query

import (
	"sort"
	"strings"

	"github.com/openagora/agora/internal/models"
)

// Ranked pairs a document with its relevance score for one query
type Ranked struct {
	Doc   *models.DocumentUpload
	Score float64
}

// Retriever ranks a working group's documents against a query. Kept as its
// own step so ranking is testable apart from generation, and so a vector
// retriever can slot in behind the same contract later.
type Retriever interface {
	Retrieve(query string, docs []*models.DocumentUpload, threshold float64, maxResults int) []Ranked
}

// KeywordRetriever scores documents by query-term overlap: the fraction of
// query terms that appear in the document text or its extracted keywords.
// With a zero threshold every document is returned (ranked), which preserves
// the all-documents behavior for callers that do not ask for filtering.
type KeywordRetriever struct{}

func NewKeywordRetriever() *KeywordRetriever {
	return &KeywordRetriever{}
}

func (r *KeywordRetriever) Retrieve(query string, docs []*models.DocumentUpload, threshold float64, maxResults int) []Ranked {
	terms := queryTerms(query)

	ranked := make([]Ranked, 0, len(docs))
	for _, doc := range docs {
		score := overlapScore(terms, doc)
		if score < threshold {
			continue
		}
		ranked = append(ranked, Ranked{Doc: doc, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,;:!?()[]{}\"'")
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

func overlapScore(terms []string, doc *models.DocumentUpload) float64 {
	if len(terms) == 0 {
		// An empty query matches everything weakly; keep ordering stable.
		return 0.1
	}

	haystack := strings.ToLower(doc.Content)
	keywords := make(map[string]struct{}, len(doc.Results.Keywords))
	for _, k := range doc.Results.Keywords {
		keywords[strings.ToLower(k)] = struct{}{}
	}

	matched := 0
	for _, t := range terms {
		if _, ok := keywords[t]; ok {
			matched++
			continue
		}
		if strings.Contains(haystack, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
