package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known sessions",
	Long: `List every session id recorded in the local index, most recently
created first. Session ids are issued by the backend the first time a
conversation gets a reply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ids, err := env.store.SessionIDs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read session index: %w", err)
		}

		if len(ids) == 0 {
			fmt.Println("No sessions recorded yet. Start one with 'bizchat chat'.")
			return nil
		}

		fmt.Println(headerStyle.Render("Known sessions"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for i, id := range ids {
			fmt.Fprintf(w, "%d\t%s\n", i+1, idStyle.Render(id))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Println(countStyle.Render(fmt.Sprintf("%d session(s)", len(ids))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
