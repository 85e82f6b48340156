package cmd

import (
	"fmt"
	"strings"

	"github.com/bizbotng/bizchat/internal"
	"github.com/spf13/cobra"
)

var askSessionID string

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single question and print the reply",
	Long: `Send one question to the assistant and print the reply with its
citations. Without --session the backend creates a new session; its id is
recorded locally and printed so the conversation can be continued with
'bizchat chat --session <id>'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		env.conv.RefreshSessions(ctx)

		if askSessionID != "" {
			// No history replay needed for a one-shot send; just tag the
			// conversation with the session to continue.
			env.conv.AttachSession(askSessionID)
		}

		if err := env.conv.Send(ctx, strings.Join(args, " ")); err != nil {
			return err
		}

		state := env.conv.State()
		for _, msg := range state.Messages {
			if msg.Sender == internal.SenderAssistant {
				fmt.Println(renderMessage(msg, false))
			}
		}
		if state.CurrentSessionID != "" {
			fmt.Printf("session: %s\n", state.CurrentSessionID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askSessionID, "session", "", "Continue an existing session by id")
}
