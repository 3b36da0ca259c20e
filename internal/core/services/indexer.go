package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.Indexer = (*IndexManager)(nil)

// IndexFactory creates an empty vector index with the given dimension.
// Injected so the index implementation stays swappable.
type IndexFactory func(dimensions int) (driven.VectorIndex, error)

// sessionState holds everything the manager keeps per live session.
type sessionState struct {
	index   driven.VectorIndex
	tables  map[string]*domain.Table // by document ID
	indexed map[string]bool          // document IDs present in the index
}

// IndexManager runs the indexing pipeline for uploaded documents:
// extract, segment, embed, insert. It holds exactly one vector index
// per live session; vectors are never persisted, so sessions are
// rebuilt from stored file records on start.
type IndexManager struct {
	registry  driven.ExtractorRegistry
	segmenter driven.Segmenter
	embedder  driven.EmbeddingService
	store     driven.ConversationStore
	newIndex  IndexFactory

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewIndexManager creates a new index manager.
func NewIndexManager(
	registry driven.ExtractorRegistry,
	seg driven.Segmenter,
	embedder driven.EmbeddingService,
	store driven.ConversationStore,
	newIndex IndexFactory,
) *IndexManager {
	return &IndexManager{
		registry:  registry,
		segmenter: seg,
		embedder:  embedder,
		store:     store,
		newIndex:  newIndex,
		sessions:  make(map[string]*sessionState),
	}
}

// session returns the state for sessionID, creating it on first use.
// Caller must hold m.mu.
func (m *IndexManager) session(sessionID string) (*sessionState, error) {
	state, ok := m.sessions[sessionID]
	if ok {
		return state, nil
	}

	idx, err := m.newIndex(m.embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	state = &sessionState{
		index:   idx,
		tables:  make(map[string]*domain.Table),
		indexed: make(map[string]bool),
	}
	m.sessions[sessionID] = state
	return state, nil
}

// Index returns the session's vector index, lazily creating an empty
// one on first access.
func (m *IndexManager) Index(sessionID string) driven.VectorIndex {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.session(sessionID)
	if err != nil {
		// Only reachable with a broken index factory.
		panic(fmt.Sprintf("index factory: %v", err))
	}
	return state.index
}

// AddDocuments runs the indexing pipeline for a batch of files.
// A file that fails does not abort the batch; earlier files stay
// indexed. Files whose names are already recorded and indexed for the
// session are skipped, never re-embedded.
func (m *IndexManager) AddDocuments(
	ctx context.Context, sessionID string, files []domain.RawFile,
) (*domain.BatchResult, error) {
	logger.Section("Indexing")
	logger.Debug("Session %s: %d file(s)", sessionID, len(files))

	recorded, err := m.recordedFiles(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchResult{
		Statuses: make([]domain.DocumentStatus, 0, len(files)),
	}

	for i := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Statuses = append(result.Statuses,
			m.addDocument(ctx, sessionID, &files[i], recorded))
	}

	logger.Info("Indexed %d, skipped %d, failed %d",
		result.Indexed(), len(files)-result.Indexed()-result.Failed(), result.Failed())
	return result, nil
}

// recordedFiles maps recorded filenames to document IDs for a session.
func (m *IndexManager) recordedFiles(ctx context.Context, sessionID string) (map[string]string, error) {
	docs, err := m.store.Files(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("listing session files: %w", err)
	}

	recorded := make(map[string]string, len(docs))
	for _, doc := range docs {
		recorded[doc.Filename] = doc.ID
	}
	return recorded, nil
}

// addDocument pushes one file through the pipeline and reports its
// status.
func (m *IndexManager) addDocument(
	ctx context.Context, sessionID string, raw *domain.RawFile, recorded map[string]string,
) domain.DocumentStatus {
	status := domain.DocumentStatus{Filename: raw.Filename}

	// Resolve the document ID: reuse the stored record's ID so the
	// index and the store agree; fresh uploads get a new one.
	documentID, isRecorded := recorded[raw.Filename]
	if !isRecorded {
		documentID = uuid.New().String()
	}
	status.DocumentID = documentID

	m.mu.Lock()
	state, err := m.session(sessionID)
	if err != nil {
		m.mu.Unlock()
		status.Err = err
		return status
	}
	if isRecorded && state.indexed[documentID] {
		m.mu.Unlock()
		logger.Debug("%s: already indexed, skipping", raw.Filename)
		status.Skipped = true
		return status
	}
	m.mu.Unlock()

	extracted, err := m.registry.Extract(ctx, raw)
	if err != nil {
		logger.Warn("%s: extraction failed: %v", raw.Filename, err)
		status.Err = fmt.Errorf("extract %s: %w", raw.Filename, err)
		return status
	}

	segments := m.segmenter.Segment(documentID, extracted.Text)
	logger.Debug("%s: %d segment(s)", raw.Filename, len(segments))

	var vectors [][]float32
	if len(segments) > 0 {
		texts := make([]string, len(segments))
		for i, seg := range segments {
			texts[i] = seg.Text
		}

		// The embedding call is the slow network-bound step; it runs
		// outside the session lock.
		vectors, err = m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("%s: embedding failed: %v", raw.Filename, err)
			status.Err = fmt.Errorf("embed %s: %w", raw.Filename, err)
			return status
		}
		if len(vectors) != len(segments) {
			status.Err = fmt.Errorf("embed %s: got %d vectors for %d segments",
				raw.Filename, len(vectors), len(segments))
			return status
		}
	}

	if err := ctx.Err(); err != nil {
		status.Err = err
		return status
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, err = m.session(sessionID)
	if err != nil {
		status.Err = err
		return status
	}

	if len(segments) > 0 {
		if err := state.index.Insert(ctx, documentID, segments, vectors); err != nil {
			status.Err = fmt.Errorf("index %s: %w", raw.Filename, err)
			return status
		}
	}
	if extracted.Table != nil {
		state.tables[documentID] = extracted.Table
	}
	state.indexed[documentID] = true

	status.Segments = len(segments)
	return status
}

// RemoveDocument evicts a document's segments, vectors and cached
// table from the session's index. Removing an absent document is a
// no-op.
func (m *IndexManager) RemoveDocument(ctx context.Context, sessionID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}

	removed, err := state.index.Remove(ctx, documentID)
	if err != nil {
		return fmt.Errorf("removing document %s: %w", documentID, err)
	}
	delete(state.tables, documentID)
	delete(state.indexed, documentID)

	logger.Debug("Session %s: removed %d segment(s) of %s", sessionID, removed, documentID)
	return nil
}

// Table returns the structured tabular extraction for a document.
func (m *IndexManager) Table(sessionID, documentID string) (*domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	table, ok := state.tables[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return table, nil
}

// Rebuild reconstructs the session's index from its stored file
// records, reading each file back from disk. Used on session start.
func (m *IndexManager) Rebuild(ctx context.Context, sessionID string) (*domain.BatchResult, error) {
	logger.Section("Index Rebuild")

	docs, err := m.store.Files(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing session files: %w", err)
	}

	// Start from a clean slate so a rebuild never duplicates entries.
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	files := make([]domain.RawFile, 0, len(docs))
	missing := make(map[string]error)
	for _, doc := range docs {
		content, err := os.ReadFile(doc.Path)
		if err != nil {
			logger.Warn("%s: unreadable at %s: %v", doc.Filename, doc.Path, err)
			missing[doc.Filename] = fmt.Errorf("read %s: %w", doc.Path, err)
			continue
		}
		files = append(files, domain.RawFile{
			SessionID: sessionID,
			Filename:  doc.Filename,
			Format:    doc.Format,
			Content:   content,
		})
	}

	result, err := m.AddDocuments(ctx, sessionID, files)
	if err != nil {
		return result, err
	}

	for name, readErr := range missing {
		result.Statuses = append(result.Statuses, domain.DocumentStatus{
			Filename: name,
			Err:      readErr,
		})
	}
	return result, nil
}

// DropSession tears down the session's index and cached state.
func (m *IndexManager) DropSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
