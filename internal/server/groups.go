package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/openagora/agora/internal/ingest"
	"github.com/openagora/agora/internal/models"
	"github.com/openagora/agora/internal/query"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

// CreateGroupRequest is the body of POST /api/groups. Config carries only
// the fields the caller wants to override; the rest come from the default
// template.
type CreateGroupRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Domain      string                    `json:"domain"`
	CreatedBy   string                    `json:"created_by"`
	Config      models.WorkingGroupConfig `json:"config"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, req.Description, req.Domain, req.CreatedBy, req.Config)
	if err != nil {
		s.logger.Error("Failed to create working group", zap.Error(err), zap.String("name", req.Name))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to create working group")
		return
	}
	s.writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context())
	if err != nil {
		s.logger.Error("Failed to list working groups", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to list working groups")
		return
	}
	if groups == nil {
		groups = []*models.WorkingGroup{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"total":  len(groups),
	})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrGroupNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "working group not found")
			return
		}
		s.logger.Error("Failed to get working group", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to get working group")
		return
	}
	s.writeJSON(w, http.StatusOK, group)
}

// handleUploadDocument accepts one multipart file plus descriptive fields.
// Unsupported declared types are rejected before anything is persisted.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if ct := r.FormValue("content_type"); ct != "" {
		contentType = ct
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	meta := models.DocumentMetadata{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Tags:        tags,
	}

	doc, err := s.pipeline.Upload(r.Context(), groupID, ingest.FileUpload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Content:     content,
	}, meta, r.FormValue("model"))
	if err != nil {
		s.writeUploadError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		s.writeError(w, http.StatusNotFound, "not_found", "working group not found")
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		s.writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
	case errors.Is(err, ingest.ErrFileTooLarge):
		s.writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, ingest.ErrEmptyFile):
		s.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("Failed to ingest document", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "ingest_error", "failed to ingest document")
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.pipeline.Documents(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrGroupNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "working group not found")
			return
		}
		s.logger.Error("Failed to list documents", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "storage_error", "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*models.DocumentUpload{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

// GroupQueryRequest is the body of POST /api/groups/{id}/query
type GroupQueryRequest struct {
	Query               string  `json:"query"`
	Model               string  `json:"model,omitempty"`
	IncludeDisclosure   bool    `json:"include_disclosure"`
	MaxResults          int     `json:"max_results"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

func (s *Server) handleGroupQuery(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	var req GroupQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	result, err := s.engine.Query(r.Context(), groupID, req.Query, query.Options{
		ModelOverride:       req.Model,
		IncludeDisclosure:   req.IncludeDisclosure,
		MaxResults:          req.MaxResults,
		SimilarityThreshold: req.SimilarityThreshold,
	})
	if err != nil {
		if errors.Is(err, storage.ErrGroupNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", "working group not found")
			return
		}
		s.logger.Error("Failed to answer group query", zap.Error(err),
			zap.String("group_id", groupID))
		s.writeError(w, http.StatusInternalServerError, "query_error", "failed to answer query")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
