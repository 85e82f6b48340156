package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bizbotng/bizchat/internal"
	"github.com/bizbotng/bizchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript to file",
	Long: `Fetch a session's history from the backend and write the reconciled
transcript in the chosen format (jsonl, md, yaml, json).

Use 'bizchat list' to see available session ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		if err := env.conv.SwitchSession(ctx, sessionID); err != nil {
			return err
		}

		transcript := &internal.Transcript{
			SessionID: sessionID,
			Messages:  env.conv.State().Messages,
		}
		if len(transcript.Messages) == 0 {
			return fmt.Errorf("session %s has no messages", sessionID)
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("%s.%s", sessionID, exporter.Extension()))
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := exporter.Export(transcript, f); err != nil {
			return fmt.Errorf("failed to export session: %w", err)
		}

		fmt.Printf("Exported %d message(s) to %s\n", len(transcript.Messages), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
}
