package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check backend reachability and local storage",
	Long: `Verify that bizchat can reach the configured backend and open the
local session database, and report how many sessions are recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("bizchat health check"))
		fmt.Println()

		env, err := newEnvironment()
		if err != nil {
			fmt.Println(errorStyle.Render("✗ Local storage:"), err)
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		failed := false

		fmt.Println(infoStyle.Render("Checking local session database..."))
		ids, err := env.store.SessionIDs(ctx)
		if err != nil {
			fmt.Println(errorStyle.Render("✗ Session index unreadable:"), err)
			failed = true
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ Session index ok (%d session(s)) at %s", len(ids), env.cfg.StoragePath)))
		}

		fmt.Println(infoStyle.Render("Checking backend at " + env.cfg.APIURL + "..."))
		if err := env.client.Health(ctx); err != nil {
			fmt.Println(errorStyle.Render("✗ Backend unreachable:"), err)
			failed = true
		} else {
			fmt.Println(successStyle.Render("✓ Backend healthy"))
		}

		if failed {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
