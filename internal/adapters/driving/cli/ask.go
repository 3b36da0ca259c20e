package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [session-id] [question]",
	Short: "Ask a question in a conversation",
	Long: `Answers a question against the conversation's uploaded documents.
The session's index is rebuilt from its recorded files first, so a
fresh process can answer immediately.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if conversationService == nil || indexer == nil {
		return errors.New("services not configured")
	}

	sessionID, question := args[0], args[1]
	ctx := context.Background()

	if err := rebuildSession(ctx, sessionID); err != nil {
		return err
	}

	answer, err := conversationService.Ask(ctx, sessionID, question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	if !answer.UsedContext {
		cmd.Println("\n(no documents uploaded; answered without document context)")
	}
	return nil
}

// rebuildSession restores the session's in-memory index from its
// recorded files. Unreadable files are reported but do not block
// answering from the rest.
func rebuildSession(ctx context.Context, sessionID string) error {
	result, err := indexer.Rebuild(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	for _, status := range result.Statuses {
		if status.Err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: %s could not be indexed: %v\n",
				status.Filename, status.Err)
		}
	}
	return nil
}
