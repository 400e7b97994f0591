package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/openagora/agora/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) SaveTranscript(ctx context.Context, t *models.Transcript) error {
	messages, err := json.Marshal(t.Messages)
	if err != nil {
		return fmt.Errorf("error marshaling messages: %v", err)
	}
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("error marshaling metadata: %v", err)
	}

	query := `
		INSERT INTO transcripts (id, project_id, session_id, messages, metadata, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = s.db.ExecContext(ctx, query, t.ID, t.ProjectID, t.SessionID, messages, metadata, t.SavedAt)
	if err != nil {
		return fmt.Errorf("error saving transcript: %v", err)
	}
	return nil
}

func (s *PostgresStorage) LoadTranscript(ctx context.Context, projectID, sessionID string) (*models.Transcript, error) {
	query := `
		SELECT id, project_id, session_id, messages, metadata, saved_at
		FROM transcripts
		WHERE project_id = $1 AND session_id = $2
		ORDER BY saved_at DESC
		LIMIT 1`

	var t models.Transcript
	var messages, metadata []byte
	err := s.db.QueryRowContext(ctx, query, projectID, sessionID).Scan(
		&t.ID, &t.ProjectID, &t.SessionID, &messages, &metadata, &t.SavedAt)
	if err == sql.ErrNoRows {
		return &models.Transcript{
			ProjectID: projectID,
			SessionID: sessionID,
			Messages:  []models.ChatMessage{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading transcript: %v", err)
	}

	if err := json.Unmarshal(messages, &t.Messages); err != nil {
		return nil, fmt.Errorf("error unmarshaling messages: %v", err)
	}
	if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
		return nil, fmt.Errorf("error unmarshaling metadata: %v", err)
	}
	return &t, nil
}

func (s *PostgresStorage) ListTranscripts(ctx context.Context) ([]models.TranscriptSummary, error) {
	query := `
		SELECT id, project_id, session_id, metadata->>'title',
		       jsonb_array_length(messages), saved_at
		FROM transcripts
		ORDER BY saved_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing transcripts: %v", err)
	}
	defer rows.Close()

	var summaries []models.TranscriptSummary
	for rows.Next() {
		var sum models.TranscriptSummary
		var title sql.NullString
		if err := rows.Scan(&sum.ID, &sum.ProjectID, &sum.SessionID, &title, &sum.MessageCount, &sum.SavedAt); err != nil {
			return nil, fmt.Errorf("error scanning transcript summary: %v", err)
		}
		sum.Title = title.String
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *PostgresStorage) DeleteTranscript(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM transcripts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting transcript: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if affected == 0 {
		return ErrTranscriptNotFound
	}
	return nil
}

func (s *PostgresStorage) CreateGroup(ctx context.Context, g *models.WorkingGroup) error {
	config, err := json.Marshal(g.Config)
	if err != nil {
		return fmt.Errorf("error marshaling group config: %v", err)
	}
	metadata, err := json.Marshal(g.Metadata)
	if err != nil {
		return fmt.Errorf("error marshaling group metadata: %v", err)
	}

	query := `
		INSERT INTO working_groups (id, name, description, domain, status, created_by, config, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		g.ID, g.Name, g.Description, g.Domain, g.Status, g.CreatedBy, config, metadata)
	if err != nil {
		return fmt.Errorf("error creating working group: %v", err)
	}
	return nil
}

func (s *PostgresStorage) GetGroup(ctx context.Context, id string) (*models.WorkingGroup, error) {
	query := `
		SELECT id, name, description, domain, status, created_by, config, metadata
		FROM working_groups
		WHERE id = $1`

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting working group: %v", err)
	}
	return g, nil
}

func (s *PostgresStorage) ListGroups(ctx context.Context) ([]*models.WorkingGroup, error) {
	query := `
		SELECT id, name, description, domain, status, created_by, config, metadata
		FROM working_groups
		ORDER BY metadata->>'created_at' DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing working groups: %v", err)
	}
	defer rows.Close()

	var groups []*models.WorkingGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning working group: %v", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStorage) TouchGroup(ctx context.Context, id string, docDelta int) error {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	g.Metadata.DocumentCount += docDelta
	g.Metadata.LastActivity = now
	g.Metadata.UpdatedAt = now

	metadata, err := json.Marshal(g.Metadata)
	if err != nil {
		return fmt.Errorf("error marshaling group metadata: %v", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE working_groups SET metadata = $1 WHERE id = $2`, metadata, id)
	if err != nil {
		return fmt.Errorf("error updating working group metadata: %v", err)
	}
	return nil
}

func (s *PostgresStorage) SaveDocument(ctx context.Context, d *models.DocumentUpload) error {
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return fmt.Errorf("error marshaling document metadata: %v", err)
	}
	results, err := json.Marshal(d.Results)
	if err != nil {
		return fmt.Errorf("error marshaling processing results: %v", err)
	}
	var disclosure []byte
	if d.Disclosure != nil {
		if disclosure, err = json.Marshal(d.Disclosure); err != nil {
			return fmt.Errorf("error marshaling disclosure: %v", err)
		}
	}

	query := `
		INSERT INTO documents (id, group_id, file_name, file_size, content_type, content,
		                       metadata, status, results, disclosure, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.db.ExecContext(ctx, query,
		d.ID, d.GroupID, d.FileName, d.FileSize, d.ContentType, d.Content,
		metadata, string(d.Status), results, disclosure, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("error saving document: %v", err)
	}
	return nil
}

func (s *PostgresStorage) ListDocuments(ctx context.Context, groupID string) ([]*models.DocumentUpload, error) {
	query := `
		SELECT id, group_id, file_name, file_size, content_type, content,
		       metadata, status, results, disclosure, uploaded_at
		FROM documents
		WHERE group_id = $1
		ORDER BY uploaded_at`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %v", err)
	}
	defer rows.Close()

	var docs []*models.DocumentUpload
	for rows.Next() {
		d := &models.DocumentUpload{}
		var metadata, results, disclosure []byte
		var status string
		err := rows.Scan(&d.ID, &d.GroupID, &d.FileName, &d.FileSize, &d.ContentType,
			&d.Content, &metadata, &status, &results, &disclosure, &d.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning document: %v", err)
		}
		d.Status = models.ProcessingStatus(status)
		if err := json.Unmarshal(metadata, &d.Metadata); err != nil {
			return nil, fmt.Errorf("error unmarshaling document metadata: %v", err)
		}
		if err := json.Unmarshal(results, &d.Results); err != nil {
			return nil, fmt.Errorf("error unmarshaling processing results: %v", err)
		}
		if len(disclosure) > 0 {
			d.Disclosure = &models.IntelligenceDisclosure{}
			if err := json.Unmarshal(disclosure, d.Disclosure); err != nil {
				return nil, fmt.Errorf("error unmarshaling disclosure: %v", err)
			}
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.WorkingGroup, error) {
	g := &models.WorkingGroup{}
	var config, metadata []byte
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Domain, &g.Status, &g.CreatedBy, &config, &metadata)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(config, &g.Config); err != nil {
		return nil, fmt.Errorf("error unmarshaling group config: %v", err)
	}
	if err := json.Unmarshal(metadata, &g.Metadata); err != nil {
		return nil, fmt.Errorf("error unmarshaling group metadata: %v", err)
	}
	return g, nil
}
