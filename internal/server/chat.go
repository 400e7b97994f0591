package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openagora/agora/internal/agent"
	"github.com/openagora/agora/internal/metrics"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message     string `json:"message"`
	AgentType   string `json:"agent_type"`
	SessionType string `json:"session_type"`
	MultiAgent  bool   `json:"multi_agent"`
}

// handleChat routes a message through the persona resolver and the provider
// fallback chain. It always answers 200: chain exhaustion degrades to the
// static persona response with llm_used=false, never to an error.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	persona := agent.Lookup(req.AgentType)
	metrics.ChatRequests.WithLabelValues(string(persona.Type)).Inc()

	resp := s.chain.Generate(r.Context(), req.Message, req.AgentType, req.SessionType, req.MultiAgent)
	s.writeJSON(w, http.StatusOK, resp)
}
