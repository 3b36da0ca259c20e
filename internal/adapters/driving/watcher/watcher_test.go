package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// recordingUploader captures uploads for assertions.
type recordingUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func newRecordingUploader() *recordingUploader {
	return &recordingUploader{uploads: make(map[string][]byte)}
}

func (r *recordingUploader) Upload(_ context.Context, _, filename string, content []byte) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.uploads[filename]; ok {
		return nil, domain.ErrAlreadyExists
	}
	r.uploads[filename] = content
	return &domain.Document{ID: "doc-" + filename, Filename: filename}, nil
}

func (r *recordingUploader) UploadBatch(context.Context, string, []domain.RawFile) (*domain.BatchResult, error) {
	return &domain.BatchResult{}, nil
}

func (r *recordingUploader) Remove(context.Context, string, string) error {
	return nil
}

func (r *recordingUploader) uploaded(filename string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.uploads[filename]
	return content, ok
}

func (r *recordingUploader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uploads)
}

func startWatcher(t *testing.T, uploader *recordingUploader, dir string) {
	t.Helper()

	w, err := New(uploader, "s1", dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		w.Close()
		<-done
	})
}

func TestWatcher_UploadsNewFile(t *testing.T) {
	dir := t.TempDir()
	uploader := newRecordingUploader()
	startWatcher(t, uploader, dir)

	content := []byte("dropped file content")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), content, 0644))

	assert.Eventually(t, func() bool {
		got, ok := uploader.uploaded("notes.txt")
		return ok && string(got) == string(content)
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_IgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	uploader := newRecordingUploader()
	startWatcher(t, uploader, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("y"), 0644))

	assert.Eventually(t, func() bool {
		_, ok := uploader.uploaded("visible.txt")
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	_, ok := uploader.uploaded(".hidden.txt")
	assert.False(t, ok)
}

func TestWatcher_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	uploader := newRecordingUploader()
	startWatcher(t, uploader, dir)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("z"), 0644))

	assert.Eventually(t, func() bool {
		_, ok := uploader.uploaded("file.txt")
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, 1, uploader.count())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	uploader := newRecordingUploader()

	_, err := New(uploader, "s1", filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
