package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the local session index",
	Long: `Remove every session id from the local index. Conversations remain
stored on the backend; this only forgets them locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		ids, err := env.store.SessionIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to read session index: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("Session index is already empty.")
			return nil
		}

		if !clearForce {
			fmt.Printf("Forget %d session(s)? [y/N] ", len(ids))
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := env.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear session index: %w", err)
		}

		fmt.Printf("Forgot %d session(s).\n", len(ids))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation")
}
