package server

import (
	"net/http"

	"github.com/openagora/agora/internal/agent"
)

// ProviderStatus reports one chain entry for GET /api/status
type ProviderStatus struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Tier      string `json:"tier"`
	Position  int    `json:"position"`
	Reachable bool   `json:"reachable"`
}

// handleStatus reports the configured provider chain in attempt order,
// probing each provider for reachability, plus the recognized personas.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	providers := s.chain.Providers()
	statuses := make([]ProviderStatus, 0, len(providers))
	for i, p := range providers {
		statuses = append(statuses, ProviderStatus{
			Name:      p.Name(),
			Model:     p.Model(),
			Tier:      p.Tier(),
			Position:  i + 1,
			Reachable: p.Ping(r.Context()) == nil,
		})
	}

	personas := agent.List()
	agents := make([]map[string]any, 0, len(personas))
	for _, p := range personas {
		agents = append(agents, map[string]any{
			"type":         p.Type,
			"display_name": p.DisplayName,
			"capabilities": p.Capabilities,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"providers": statuses,
		"agents":    agents,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
