package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [session-id]",
	Short: "Chat interactively in a conversation",
	Long: `Starts an interactive chat loop. Each line is answered against the
conversation's documents. Type /quit to exit, /sources to toggle
source listings.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if conversationService == nil || indexer == nil {
		return errors.New("services not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	conv, err := conversationService.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading conversation: %w", err)
	}

	if err := rebuildSession(ctx, sessionID); err != nil {
		return err
	}

	cmd.Printf("Chatting in %q. Type /quit to exit.\n", conv.Name)

	showSources := true
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/sources":
			showSources = !showSources
			cmd.Printf("Source listings %s\n", onOff(showSources))
			continue
		}

		answer, err := conversationService.Ask(ctx, sessionID, line)
		if err != nil {
			cmd.PrintErrf("error: %v\n", err)
			continue
		}

		cmd.Println(answer.Text)
		if showSources && len(answer.Sources) > 0 {
			cmd.Printf("(sources: %s)\n", strings.Join(answer.Sources, ", "))
		}
	}
	return scanner.Err()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
