package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage a conversation's documents",
	Long:    `List, inspect, or remove uploaded documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [session-id]",
	Short: "List a conversation's documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [session-id] [doc-id]",
	Short: "Remove a document from a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentRemove,
}

var documentTableCmd = &cobra.Command{
	Use:   "table [session-id] [doc-id]",
	Short: "Show a document's extracted table",
	Long:  `Prints the structured rows extracted from a tabular document such as a CSV file.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentTable,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentTableCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	docs, err := conversationService.Files(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s  %-8s  %s\n", doc.ID, doc.Format, doc.Filename)
	}
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if uploader == nil {
		return errors.New("upload service not configured")
	}

	if err := uploader.Remove(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	cmd.Printf("Removed document %s\n", args[1])
	return nil
}

func runDocumentTable(cmd *cobra.Command, args []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	sessionID, documentID := args[0], args[1]

	// Tables live in the in-memory session state; restore it first.
	if err := rebuildSession(context.Background(), sessionID); err != nil {
		return err
	}

	table, err := indexer.Table(sessionID, documentID)
	if err != nil {
		return fmt.Errorf("loading table: %w", err)
	}

	cmd.Println(strings.Join(table.Columns, " | "))
	for _, row := range table.Rows {
		cmd.Println(strings.Join(row, " | "))
	}
	return nil
}
