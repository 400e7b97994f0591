package ingest

import (
	"sort"
	"strings"
)

// Scorer computes quality and keyword metadata for an ingested document.
// Pluggable so real scoring can replace the heuristic without touching the
// upload flow.
type Scorer interface {
	Score(content string) (quality float64, keywords []string)
}

// HeuristicScorer is a cheap word-frequency scorer. Quality grows with
// document length up to a cap; keywords are the most frequent non-stopword
// terms.
type HeuristicScorer struct {
	maxKeywords int
}

func NewHeuristicScorer(maxKeywords int) *HeuristicScorer {
	if maxKeywords <= 0 {
		maxKeywords = 5
	}
	return &HeuristicScorer{maxKeywords: maxKeywords}
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "with": {}, "this": {}, "that": {}, "from": {},
	"they": {}, "have": {}, "has": {}, "was": {}, "were": {}, "will": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "their": {}, "there": {},
	"about": {}, "would": {}, "could": {}, "should": {}, "into": {}, "than": {},
	"then": {}, "them": {}, "these": {}, "those": {}, "been": {}, "being": {},
}

func (s *HeuristicScorer) Score(content string) (float64, []string) {
	words := strings.Fields(strings.ToLower(content))

	freq := make(map[string]int)
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?()[]{}\"'")
		if len(w) < 4 {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		freq[w]++
	}

	keywords := make([]string, 0, len(freq))
	for w := range freq {
		keywords = append(keywords, w)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if freq[keywords[i]] != freq[keywords[j]] {
			return freq[keywords[i]] > freq[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > s.maxKeywords {
		keywords = keywords[:s.maxKeywords]
	}

	// Longer documents with varied vocabulary score higher, capped at 0.95.
	quality := 0.5
	if len(words) > 50 {
		quality = 0.7
	}
	if len(words) > 300 {
		quality = 0.85
	}
	if len(freq) > 200 {
		quality = 0.95
	}

	return quality, keywords
}
