package cmd

import (
	"fmt"
	"os"

	"github.com/bizbotng/bizchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	apiURL      string
	storagePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bizchat",
	Short: "Chat with the BizBot Nigeria business assistant",
	Long: `A terminal client for the BizBot Nigeria assistant, a RAG-backed
service answering questions about Nigerian business regulations.

Conversations are grouped into server-issued sessions. The client keeps an
index of every session it has seen in a local database, so past conversations
can be listed, resumed, exported, or deleted.

Quick Start:
  bizchat chat                     # Start an interactive conversation
  bizchat ask "How do I register a business?"
  bizchat list                     # List known sessions
  bizchat show <session-id>        # Replay a past conversation`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (default $BIZCHAT_API_URL or http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom session database location")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
