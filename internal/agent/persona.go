package agent

import (
	"fmt"
	"strings"
)

// AgentType names one of the recognized agent personas
type AgentType string

const (
	AgentArchive   AgentType = "archive"
	AgentCodex     AgentType = "codex"
	AgentDiscourse AgentType = "discourse"
	AgentMulti     AgentType = "multi"
)

// Persona couples an agent identity with its prompt-building function.
// Prompt builders are pure: same inputs, same prompt, no I/O.
type Persona struct {
	Type         AgentType
	DisplayName  string
	Capabilities []string
	buildPrompt  func(sessionLabel string, multiAgent bool) string
}

var personas = map[AgentType]Persona{
	AgentArchive: {
		Type:         AgentArchive,
		DisplayName:  "Archive",
		Capabilities: []string{"knowledge synthesis", "historical context", "source retrieval"},
		buildPrompt:  func(session string, multi bool) string {
			p := fmt.Sprintf("You are Archive, a knowledge synthesis agent supporting the %s session. "+
				"You surface relevant prior work, connect historical decisions to the present discussion, "+
				"and always ground claims in retrievable sources.", session)
			if multi {
				p += " You are working alongside other agents; defer policy questions to Codex and facilitation to Discourse."
			}
			return p
		},
	},
	AgentCodex: {
		Type:         AgentCodex,
		DisplayName:  "Codex",
		Capabilities: []string{"policy analysis", "standards interpretation", "compliance framing"},
		buildPrompt:  func(session string, multi bool) string {
			p := fmt.Sprintf("You are Codex, a policy and standards agent supporting the %s session. "+
				"You interpret rules, standards, and governance documents precisely, flag ambiguity "+
				"explicitly, and never present an opinion as a requirement.", session)
			if multi {
				p += " You are working alongside other agents; leave sourcing to Archive and community framing to Discourse."
			}
			return p
		},
	},
	AgentDiscourse: {
		Type:         AgentDiscourse,
		DisplayName:  "Discourse",
		Capabilities: []string{"community facilitation", "collaboration", "consensus building"},
		buildPrompt:  func(session string, multi bool) string {
			p := fmt.Sprintf("You are Discourse, a community collaboration agent supporting the %s session. "+
				"You help participants find common ground, summarize positions fairly, and keep the "+
				"conversation constructive and inclusive.", session)
			if multi {
				p += " You are working alongside other agents; rely on Archive for sources and Codex for policy detail."
			}
			return p
		},
	},
	AgentMulti: {
		Type:         AgentMulti,
		DisplayName:  "Multi",
		Capabilities: []string{"cross-agent coordination", "task routing", "synthesis"},
		buildPrompt:  func(session string, multi bool) string {
			return fmt.Sprintf("You are a coordination agent supporting the %s session. "+
				"You combine knowledge synthesis, policy interpretation, and community facilitation "+
				"perspectives into a single balanced answer.", session)
		},
	},
}

// Resolve maps (agentType, sessionType, isMultiAgent) to a system prompt.
// Unknown agent types resolve to the generic Multi persona rather than
// failing; that is the intended default for unrecognized callers.
func Resolve(agentType, sessionType string, isMultiAgent bool) string {
	p := Lookup(agentType)
	return p.buildPrompt(sessionLabel(sessionType), isMultiAgent)
}

// Lookup returns the persona for an agent type, falling back to Multi.
func Lookup(agentType string) Persona {
	if p, ok := personas[AgentType(strings.ToLower(agentType))]; ok {
		return p
	}
	return personas[AgentMulti]
}

// Known reports whether the agent type is one of the recognized personas.
func Known(agentType string) bool {
	_, ok := personas[AgentType(strings.ToLower(agentType))]
	return ok
}

// List returns all recognized personas for the status endpoint.
func List() []Persona {
	return []Persona{
		personas[AgentArchive],
		personas[AgentCodex],
		personas[AgentDiscourse],
		personas[AgentMulti],
	}
}

func sessionLabel(sessionType string) string {
	s := strings.TrimSpace(sessionType)
	if s == "" {
		return "general"
	}
	return strings.ToLower(s)
}
