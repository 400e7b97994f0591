package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownPersonas(t *testing.T) {
	tests := []struct {
		name      string
		agentType string
		contains  string
	}{
		{"archive", "archive", "Archive"},
		{"codex", "codex", "Codex"},
		{"discourse", "discourse", "Discourse"},
		{"multi", "multi", "coordination agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := Resolve(tt.agentType, "regulatory", false)
			assert.Contains(t, prompt, tt.contains)
			assert.Contains(t, prompt, "regulatory")
		})
	}
}

func TestResolve_UnknownAgentDefaultsToMulti(t *testing.T) {
	prompt := Resolve("nonexistent", "plenary", false)
	expected := Resolve("multi", "plenary", false)
	assert.Equal(t, expected, prompt)
}

func TestResolve_Deterministic(t *testing.T) {
	first := Resolve("codex", "standards", true)
	second := Resolve("codex", "standards", true)
	assert.Equal(t, first, second)
}

func TestResolve_EmptySessionUsesGeneralLabel(t *testing.T) {
	prompt := Resolve("archive", "", false)
	assert.Contains(t, prompt, "general")
}

func TestResolve_MultiAgentAddsCoordinationFraming(t *testing.T) {
	solo := Resolve("archive", "plenary", false)
	multi := Resolve("archive", "plenary", true)
	assert.NotEqual(t, solo, multi)
	assert.Contains(t, multi, "alongside other agents")
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("archive"))
	assert.True(t, Known("CODEX"))
	assert.False(t, Known("oracle"))
}

func TestList_ReturnsAllPersonas(t *testing.T) {
	personas := List()
	require.Len(t, personas, 4)
	assert.Equal(t, AgentArchive, personas[0].Type)
	assert.Equal(t, AgentMulti, personas[3].Type)
}
