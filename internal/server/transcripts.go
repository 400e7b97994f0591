package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

// SaveTranscriptRequest is the body of POST /api/transcripts. Messages are
// a full snapshot of the conversation at save time.
type SaveTranscriptRequest struct {
	ProjectID string                    `json:"project_id"`
	SessionID string                    `json:"session_id"`
	Messages  []models.ChatMessage      `json:"messages"`
	Metadata  models.TranscriptMetadata `json:"metadata"`
}

func (s *Server) handleSaveTranscript(w http.ResponseWriter, r *http.Request) {
	var req SaveTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.ProjectID == "" || req.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "project_id and session_id are required")
		return
	}
	if req.Messages == nil {
		req.Messages = []models.ChatMessage{}
	}

	t := &models.Transcript{
		ID:        uuid.New().String(),
		ProjectID: req.ProjectID,
		SessionID: req.SessionID,
		Messages:  req.Messages,
		Metadata:  req.Metadata,
		SavedAt:   time.Now(),
	}

	if err := s.transcripts.SaveTranscript(r.Context(), t); err != nil {
		s.logger.Error("Failed to save transcript",
			zap.Error(err),
			zap.String("project_id", req.ProjectID),
			zap.String("session_id", req.SessionID))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to save transcript")
		return
	}

	// Publishing is best effort and must not delay or fail the save.
	if s.publisher != nil {
		go func(t models.Transcript) {
			if err := s.publisher.PublishTranscript(&t); err != nil {
				s.logger.Warn("Failed to publish transcript", zap.Error(err),
					zap.String("transcript_id", t.ID))
			}
		}(*t)
	}

	s.writeJSON(w, http.StatusCreated, t)
}

// handleTranscripts loads the latest snapshot for a (project, session) pair
// when both query params are present, and lists summaries otherwise.
func (s *Server) handleTranscripts(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	session := r.URL.Query().Get("session")

	if project != "" && session != "" {
		t, err := s.transcripts.LoadTranscript(r.Context(), project, session)
		if err != nil {
			s.logger.Error("Failed to load transcript", zap.Error(err),
				zap.String("project_id", project), zap.String("session_id", session))
			s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to load transcript")
			return
		}
		s.writeJSON(w, http.StatusOK, t)
		return
	}

	summaries, err := s.transcripts.ListTranscripts(r.Context())
	if err != nil {
		s.logger.Error("Failed to list transcripts", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to list transcripts")
		return
	}
	if summaries == nil {
		summaries = []models.TranscriptSummary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"transcripts": summaries,
		"total":       len(summaries),
	})
}

func (s *Server) handleDeleteTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transcripts.DeleteTranscript(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrTranscriptNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "transcript not found")
			return
		}
		s.logger.Error("Failed to delete transcript", zap.Error(err), zap.String("id", id))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to delete transcript")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
