// Package cli implements the docuverse command-line interface using
// cobra. Commands talk to the core through the driving ports; wiring
// happens in main via Configure.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Config holds the services the CLI commands depend on.
type Config struct {
	ConversationService driving.ConversationService
	Uploader            driving.Uploader
	Indexer             driving.Indexer
	ConfigStore         driven.ConfigStore
}

var (
	conversationService driving.ConversationService
	uploader            driving.Uploader
	indexer             driving.Indexer
	configStore         driven.ConfigStore
)

// Configure injects the services the commands use. Must be called
// before Execute.
func Configure(config Config) {
	conversationService = config.ConversationService
	uploader = config.Uploader
	indexer = config.Indexer
	configStore = config.ConfigStore
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docuverse",
	Short: "Chat with your documents",
	Long: `DocuVerse lets you upload documents into conversations and ask
questions about them. Uploaded files are segmented, embedded and
indexed per conversation; answers are generated from the most
relevant excerpts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
