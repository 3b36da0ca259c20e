// Package watcher feeds files dropped into a watched directory through
// the upload pipeline. Useful as a drop folder: any document written
// into the directory is indexed into the session without an explicit
// upload command.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// settleDelay gives the writing process time to finish before the
// file is read.
const settleDelay = 200 * time.Millisecond

// Watcher uploads files created or modified in a directory to one
// conversation session. A file that is already recorded for the
// session is ignored; fsnotify commonly delivers Create and Write for
// the same save.
type Watcher struct {
	uploader  driving.Uploader
	sessionID string
	dir       string
	fsw       *fsnotify.Watcher
}

// New creates a watcher over dir for the given session.
func New(uploader driving.Uploader, sessionID, dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		uploader:  uploader,
		sessionID: sessionID,
		dir:       dir,
		fsw:       fsw,
	}, nil
}

// Run processes filesystem events until the context is cancelled or
// the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("Watching %s for session %s", w.dir, w.sessionID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher. A running Run returns after Close.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handle uploads one changed path, skipping directories, hidden files
// and files the session already has.
func (w *Watcher) handle(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}

	time.Sleep(settleDelay)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Could not read %s: %v", path, err)
		return
	}

	_, err = w.uploader.Upload(ctx, w.sessionID, name, content)
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Debug("%s already uploaded, ignoring", name)
	case errors.Is(err, domain.ErrUnsupportedFormat):
		logger.Debug("%s has an unsupported format, ignoring", name)
	case err != nil:
		logger.Warn("Upload of %s failed: %v", name, err)
	default:
		logger.Info("Uploaded %s from watched directory", name)
	}
}
