package llm

import (
	"fmt"
	"strings"
)

const genericFallback = "The language model backends are currently unavailable. " +
	"This is a static response; please retry shortly for a generated answer."

// Static persona responses used when every provider in the chain has failed.
// Deterministic on (agentType, sessionType) so degraded behavior is stable
// and testable.
var fallbackByAgent = map[string]string{
	"archive": "I am unable to reach a language model right now, so I cannot synthesize " +
		"new material for the %s session. Previously saved documents and transcripts " +
		"remain available through the archive endpoints.",
	"codex": "I am unable to reach a language model right now, so I cannot interpret " +
		"policy for the %s session. Please consult the published standards directly, " +
		"or retry once a model backend is reachable.",
	"discourse": "I am unable to reach a language model right now, so I cannot help " +
		"facilitate the %s session. The conversation history is preserved and I will " +
		"pick the thread back up once a backend responds.",
	"multi": "I am unable to reach a language model right now for the %s session. " +
		"This is a static response; please retry shortly.",
}

// FallbackResponse returns the canned answer for an agent persona and session
// label. Unknown agent types use the generic multi response.
func FallbackResponse(agentType, sessionType string) string {
	label := strings.TrimSpace(strings.ToLower(sessionType))
	if label == "" {
		label = "general"
	}
	tmpl, ok := fallbackByAgent[strings.ToLower(agentType)]
	if !ok {
		tmpl = fallbackByAgent["multi"]
	}
	return fmt.Sprintf(tmpl, label)
}
