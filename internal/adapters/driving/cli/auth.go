package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/docuverse/docuverse/internal/adapters/driven/ai"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
	Long: `Store API keys for the configured providers. Keys set through the
environment (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) take
precedence over stored ones.`,
}

var authSetKeyCmd = &cobra.Command{
	Use:   "set-key [llm|embedding]",
	Short: "Store an API key",
	Long:  `Prompts for an API key without echoing and stores it in the config file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSetKey,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend connectivity",
	Long:  `Validates that the configured embedding and chat backends are reachable.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	authCmd.AddCommand(authSetKeyCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(statusCmd)
}

func runAuthSetKey(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	var configKey string
	switch args[0] {
	case "llm":
		configKey = "llm.api_key"
	case "embedding":
		configKey = "embedding.api_key"
	default:
		return fmt.Errorf("unknown credential target %q (want llm or embedding)", args[0])
	}

	cmd.Print("API key: ")
	key := readSecret()
	cmd.Println()
	if key == "" {
		return errors.New("no key entered")
	}

	if err := configStore.Set(configKey, key); err != nil {
		return fmt.Errorf("storing key: %w", err)
	}

	cmd.Printf("Stored %s (%s)\n", configKey, maskAPIKey(key))
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	failed := false

	cmd.Print("Embedding backend: ")
	if err := ai.ValidateEmbedding(configStore); err != nil {
		cmd.Printf("FAILED (%v)\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	cmd.Print("Chat backend: ")
	if err := ai.ValidateLLM(configStore); err != nil {
		cmd.Printf("FAILED (%v)\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if failed {
		return errors.New("one or more backends are unavailable")
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if secret, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
