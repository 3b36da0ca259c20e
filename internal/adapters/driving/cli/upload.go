package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docuverse/docuverse/internal/adapters/driving/watcher"
	"github.com/docuverse/docuverse/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [session-id] [files...]",
	Short: "Upload documents into a conversation",
	Long: `Uploads one or more files into a conversation. Each file is
extracted, segmented, embedded and indexed; failures are reported
per file.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

var watchCmd = &cobra.Command{
	Use:   "watch [session-id] [directory]",
	Short: "Watch a directory and upload new files",
	Long: `Watches a directory and uploads every file created or modified in
it into the conversation. Runs until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(watchCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploader == nil || indexer == nil {
		return errors.New("upload service not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	// Restore what the session already has so re-uploads are detected
	// and the new files join the existing index.
	if err := rebuildSession(ctx, sessionID); err != nil {
		return err
	}

	files := make([]domain.RawFile, 0, len(args)-1)
	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, domain.RawFile{
			SessionID: sessionID,
			Filename:  filepath.Base(path),
			Content:   content,
		})
	}

	result, err := uploader.UploadBatch(ctx, sessionID, files)
	if err != nil {
		return fmt.Errorf("uploading: %w", err)
	}

	for _, status := range result.Statuses {
		switch {
		case status.Err != nil:
			cmd.Printf("  %s: FAILED (%v)\n", status.Filename, status.Err)
		case status.Skipped:
			cmd.Printf("  %s: already uploaded\n", status.Filename)
		default:
			cmd.Printf("  %s: %d segment(s)\n", status.Filename, status.Segments)
		}
	}
	cmd.Printf("Uploaded %d of %d file(s)\n", result.Indexed(), len(files))

	if result.Failed() > 0 {
		return fmt.Errorf("%d file(s) failed", result.Failed())
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploader == nil || indexer == nil {
		return errors.New("upload service not configured")
	}

	sessionID, dir := args[0], args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rebuildSession(ctx, sessionID); err != nil {
		return err
	}

	w, err := watcher.New(uploader, sessionID, dir)
	if err != nil {
		return err
	}
	defer w.Close()

	cmd.Printf("Watching %s. Press Ctrl-C to stop.\n", dir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
