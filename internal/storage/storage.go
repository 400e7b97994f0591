package storage

import (
	"context"
	"errors"

	"github.com/openagora/agora/internal/models"
)

var (
	ErrGroupNotFound      = errors.New("working group not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// TranscriptStore persists full conversation snapshots. Every save writes a
// new record; Load returns the most recent record for the pair, or an empty
// transcript when nothing was saved yet. There is no merge: the later of two
// concurrent saves wins.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, t *models.Transcript) error
	LoadTranscript(ctx context.Context, projectID, sessionID string) (*models.Transcript, error)
	ListTranscripts(ctx context.Context) ([]models.TranscriptSummary, error)
	DeleteTranscript(ctx context.Context, id string) error
}

// GroupStore holds working-group configuration and usage metadata.
// Groups are create/get/list only; TouchGroup is the single mutation point
// for the usage counters.
type GroupStore interface {
	CreateGroup(ctx context.Context, g *models.WorkingGroup) error
	GetGroup(ctx context.Context, id string) (*models.WorkingGroup, error)
	ListGroups(ctx context.Context) ([]*models.WorkingGroup, error)
	// TouchGroup adjusts document_count by docDelta and advances
	// last_activity/updated_at for the group.
	TouchGroup(ctx context.Context, id string, docDelta int) error
}

// DocumentStore records ingested documents per working group
type DocumentStore interface {
	SaveDocument(ctx context.Context, d *models.DocumentUpload) error
	ListDocuments(ctx context.Context, groupID string) ([]*models.DocumentUpload, error)
}

type Storage interface {
	TranscriptStore
	GroupStore
	DocumentStore
	Close() error
}
