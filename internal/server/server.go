// Package server exposes the HTTP surface: agent chat, transcript
// persistence, working-group management, document upload, group queries,
// and diagnostics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openagora/agora/internal/ingest"
	"github.com/openagora/agora/internal/llm"
	"github.com/openagora/agora/internal/metrics"
	"github.com/openagora/agora/internal/publisher"
	"github.com/openagora/agora/internal/query"
	"github.com/openagora/agora/internal/registry"
	"github.com/openagora/agora/internal/storage"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	chain       *llm.Chain
	transcripts storage.TranscriptStore
	groups      *registry.Registry
	pipeline    *ingest.Pipeline
	engine      *query.Engine
	publisher   publisher.Publisher
	logger      *zap.Logger

	httpServer *http.Server
}

// New wires the component chain behind the HTTP mux. publisher may be nil
// when transcript publishing is not configured.
func New(addr string, llmChain *llm.Chain, transcripts storage.TranscriptStore, groups *registry.Registry,
	pipeline *ingest.Pipeline, engine *query.Engine, pub publisher.Publisher, logger *zap.Logger) *Server {

	s := &Server{
		chain:       llmChain,
		transcripts: transcripts,
		groups:      groups,
		pipeline:    pipeline,
		engine:      engine,
		publisher:   pub,
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           chain(mux, s.recoveryMiddleware, s.loggingMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("POST /api/transcripts", s.handleSaveTranscript)
	mux.HandleFunc("GET /api/transcripts", s.handleTranscripts)
	mux.HandleFunc("DELETE /api/transcripts/{id}", s.handleDeleteTranscript)

	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups", s.handleListGroups)
	mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	mux.HandleFunc("POST /api/groups/{id}/documents", s.handleUploadDocument)
	mux.HandleFunc("GET /api/groups/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /api/groups/{id}/query", s.handleGroupQuery)

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
