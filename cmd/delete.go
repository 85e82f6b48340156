package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Remove a session from the local index",
	Long: `Remove a session id from the local index. The conversation itself
lives on the backend; only the local record of it is removed. Tolerant of ids
that are not in the index.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		if err := env.store.RemoveSessionID(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
