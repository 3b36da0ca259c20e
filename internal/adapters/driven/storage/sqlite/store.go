package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docuverse/docuverse/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConversationStore = (*Store)(nil)

// Store is a SQLite-backed conversation store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docuverse/data/docuverse.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docuverse", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docuverse.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys so conversation deletes cascade
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Conversations ====================

// CreateConversation starts a new conversation with a fresh session ID.
func (s *Store) CreateConversation(ctx context.Context, name string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	conv := domain.Conversation{
		SessionID: uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, conv.SessionID, conv.Name, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	return &conv, nil
}

// GetConversation retrieves a conversation by session ID.
func (s *Store) GetConversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, name, created_at, updated_at
		FROM conversations WHERE session_id = ?
	`, sessionID)

	var conv domain.Conversation
	if err := row.Scan(&conv.SessionID, &conv.Name, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns all conversations, most recently updated first.
func (s *Store) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, name, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var conv domain.Conversation
		if err := rows.Scan(&conv.SessionID, &conv.Name, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return conversations, nil
}

// RenameConversation updates a conversation's name.
func (s *Store) RenameConversation(ctx context.Context, sessionID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations SET name = ?, updated_at = ? WHERE session_id = ?
	`, name, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("renaming conversation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rename result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation. Its messages and file
// records cascade.
func (s *Store) DeleteConversation(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM conversations WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// touch bumps a conversation's updated_at timestamp.
func (s *Store) touch(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE conversations SET updated_at = ? WHERE session_id = ?
	`, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}
	return nil
}

// ==================== Messages ====================

// AddMessage appends a chat message to a conversation.
func (s *Store) AddMessage(ctx context.Context, msg domain.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (session_id, role, content, timestamp)
		VALUES (?, ?, ?, ?)
	`, msg.SessionID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, msg.SessionID)
		}
		return fmt.Errorf("adding message: %w", err)
	}

	return s.touch(ctx, msg.SessionID)
}

// Messages returns a conversation's messages in chronological order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, role, content, timestamp
		FROM messages WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.SessionID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return messages, nil
}

// ==================== Files ====================

// AddFile records an uploaded document. A session cannot hold two
// files with the same name.
func (s *Store) AddFile(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidArgument
	}

	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, session_id, file_name, path, format, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SessionID, doc.Filename, doc.Path, string(doc.Format), uploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: file %q in session %s",
				domain.ErrAlreadyExists, doc.Filename, doc.SessionID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, doc.SessionID)
		}
		return fmt.Errorf("adding file: %w", err)
	}

	return s.touch(ctx, doc.SessionID)
}

// Files returns a conversation's uploaded documents in upload order.
func (s *Store) Files(ctx context.Context, sessionID string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, file_name, path, format, uploaded_at
		FROM files WHERE session_id = ?
		ORDER BY uploaded_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var format string
		if err := rows.Scan(&doc.ID, &doc.SessionID, &doc.Filename,
			&doc.Path, &format, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		doc.Format = domain.Format(format)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	return docs, nil
}

// RemoveFile deletes one uploaded-file record.
func (s *Store) RemoveFile(ctx context.Context, sessionID, documentID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM files WHERE session_id = ? AND id = ?", sessionID, documentID)
	if err != nil {
		return fmt.Errorf("removing file: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking remove result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helper Functions ====================

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite exposes constraint errors by message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err is a SQLite FOREIGN KEY
// constraint failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
