package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openagora/agora/internal/models"
)

// MemoryStorage keeps everything in process-local maps. Used as the test
// double and for single-instance deployments without a database; state does
// not survive a restart and cannot be shared across instances.
type MemoryStorage struct {
	mu          sync.RWMutex
	transcripts map[string]*models.Transcript
	groups      map[string]*models.WorkingGroup
	documents   map[string][]*models.DocumentUpload
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		transcripts: make(map[string]*models.Transcript),
		groups:      make(map[string]*models.WorkingGroup),
		documents:   make(map[string][]*models.DocumentUpload),
	}
}

func (s *MemoryStorage) SaveTranscript(ctx context.Context, t *models.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[t.ID] = t
	return nil
}

func (s *MemoryStorage) LoadTranscript(ctx context.Context, projectID, sessionID string) (*models.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Transcript
	for _, t := range s.transcripts {
		if t.ProjectID != projectID || t.SessionID != sessionID {
			continue
		}
		if latest == nil || t.SavedAt.After(latest.SavedAt) {
			latest = t
		}
	}
	if latest == nil {
		// An empty transcript, not an error: a pair that was never saved
		// loads as a fresh conversation.
		return &models.Transcript{
			ProjectID: projectID,
			SessionID: sessionID,
			Messages:  []models.ChatMessage{},
		}, nil
	}
	return latest, nil
}

func (s *MemoryStorage) ListTranscripts(ctx context.Context) ([]models.TranscriptSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.TranscriptSummary, 0, len(s.transcripts))
	for _, t := range s.transcripts {
		summaries = append(summaries, models.TranscriptSummary{
			ID:           t.ID,
			ProjectID:    t.ProjectID,
			SessionID:    t.SessionID,
			Title:        t.Metadata.Title,
			MessageCount: len(t.Messages),
			SavedAt:      t.SavedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SavedAt.After(summaries[j].SavedAt)
	})
	return summaries, nil
}

func (s *MemoryStorage) DeleteTranscript(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transcripts[id]; !exists {
		return ErrTranscriptNotFound
	}
	delete(s.transcripts, id)
	return nil
}

func (s *MemoryStorage) CreateGroup(ctx context.Context, g *models.WorkingGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[g.ID] = g
	return nil
}

func (s *MemoryStorage) GetGroup(ctx context.Context, id string) (*models.WorkingGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g, exists := s.groups[id]; exists {
		return g, nil
	}
	return nil, ErrGroupNotFound
}

func (s *MemoryStorage) ListGroups(ctx context.Context) ([]*models.WorkingGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.WorkingGroup, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Metadata.CreatedAt.After(groups[j].Metadata.CreatedAt)
	})
	return groups, nil
}

func (s *MemoryStorage) TouchGroup(ctx context.Context, id string, docDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, exists := s.groups[id]
	if !exists {
		return ErrGroupNotFound
	}
	now := time.Now()
	g.Metadata.DocumentCount += docDelta
	g.Metadata.LastActivity = now
	g.Metadata.UpdatedAt = now
	return nil
}

func (s *MemoryStorage) SaveDocument(ctx context.Context, d *models.DocumentUpload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[d.GroupID] = append(s.documents[d.GroupID], d)
	return nil
}

func (s *MemoryStorage) ListDocuments(ctx context.Context, groupID string) ([]*models.DocumentUpload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.documents[groupID]
	out := make([]*models.DocumentUpload, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
