package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON body for every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Status is already on the wire; nothing to do but log.
		s.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errName, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: errName, Message: message})
}
