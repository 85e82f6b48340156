package cmd

import (
	"github.com/spf13/cobra"
)

var showTimestamps bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Replay a session's conversation",
	Long: `Fetch the stored history for a session from the backend and print
the reconciled transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		if err := env.conv.SwitchSession(ctx, args[0]); err != nil {
			return err
		}

		printTranscript(env.conv.State().Messages, showTimestamps)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showTimestamps, "timestamps", false, "Show message timestamps")
}
