package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var conversationJSON bool

var conversationCmd = &cobra.Command{
	Use:     "conversation",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
	Long:    `Create, list, rename, and delete conversations.`,
}

var conversationNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Start a new conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConversationNew,
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Args:  cobra.NoArgs,
	RunE:  runConversationList,
}

var conversationRenameCmd = &cobra.Command{
	Use:   "rename [session-id] [name]",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runConversationRename,
}

var conversationDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a conversation and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationDelete,
}

var conversationHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show a conversation's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationHistory,
}

func init() {
	conversationListCmd.Flags().BoolVar(&conversationJSON, "json", false, "output as JSON")

	conversationCmd.AddCommand(conversationNewCmd)
	conversationCmd.AddCommand(conversationListCmd)
	conversationCmd.AddCommand(conversationRenameCmd)
	conversationCmd.AddCommand(conversationDeleteCmd)
	conversationCmd.AddCommand(conversationHistoryCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runConversationNew(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	conv, err := conversationService.New(context.Background(), name)
	if err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}

	cmd.Printf("Created conversation %q\n", conv.Name)
	cmd.Printf("Session ID: %s\n", conv.SessionID)
	return nil
}

func runConversationList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	convs, err := conversationService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	if conversationJSON {
		data, err := json.MarshalIndent(convs, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(convs) == 0 {
		cmd.Println("No conversations. Start one with 'docuverse conversation new'.")
		return nil
	}

	for _, conv := range convs {
		cmd.Printf("%s  %s  (updated %s)\n",
			conv.SessionID, conv.Name, conv.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runConversationRename(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	if err := conversationService.Rename(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("renaming conversation: %w", err)
	}

	cmd.Printf("Renamed conversation %s to %q\n", args[0], args[1])
	return nil
}

func runConversationDelete(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	if err := conversationService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}

	cmd.Printf("Deleted conversation %s\n", args[0])
	return nil
}

func runConversationHistory(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	messages, err := conversationService.History(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}

	for _, msg := range messages {
		cmd.Printf("[%s] %s: %s\n",
			msg.Timestamp.Format("15:04"), msg.Role, msg.Content)
	}
	return nil
}
