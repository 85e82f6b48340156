package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bizbotng/bizchat/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var chatSessionID string

var promptStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212"))

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the assistant.

The first reply creates a server-issued session; its id is recorded locally
so the conversation can be resumed later with --session or /switch.

In-chat commands:
  /sessions        List known sessions
  /switch <id|#>   Switch to another session (replays its history)
  /new             Start a fresh, unsaved conversation
  /delete <id|#>   Delete a session from the local index
  /quit            Leave the chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.close()

		ctx := cmd.Context()
		env.conv.RefreshSessions(ctx)

		// Status line mirrors the notification slot.
		env.notifier.Subscribe(func(n *internal.Notification) {
			if rendered := renderNotification(n); rendered != "" {
				fmt.Fprintln(os.Stderr, rendered)
			}
		})

		if chatSessionID != "" {
			if err := env.conv.SwitchSession(ctx, chatSessionID); err != nil {
				internal.LogWarn("Could not resume session %s: %v", chatSessionID, err)
			} else {
				printTranscript(env.conv.State().Messages, false)
			}
		}

		fmt.Println("Connected to", env.cfg.APIURL)
		fmt.Println("Type a question, or /quit to leave.")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), internal.MaxMessageLength*4)

		for {
			fmt.Print(promptStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				quit, err := runChatCommand(ctx, env, line)
				if err != nil {
					fmt.Fprintln(os.Stderr, statusErrorStyle.Render("✗ "+err.Error()))
				}
				if quit {
					return nil
				}
				continue
			}

			before := len(env.conv.State().Messages)
			if err := env.conv.Send(ctx, line); err != nil {
				// Already surfaced through the notification slot.
				continue
			}

			state := env.conv.State()
			for _, msg := range state.Messages[before:] {
				if msg.Sender == internal.SenderAssistant {
					fmt.Println(renderMessage(msg, false))
				}
			}
		}
	},
}

// runChatCommand handles a /command line; returns quit=true for /quit.
func runChatCommand(ctx context.Context, env *environment, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new":
		env.conv.NewChat()
		fmt.Println("Started a fresh conversation.")
		return false, nil

	case "/sessions":
		state := env.conv.State()
		if len(state.SessionIDs) == 0 {
			fmt.Println("No sessions recorded yet.")
			return false, nil
		}
		for i, id := range state.SessionIDs {
			marker := " "
			if id == state.CurrentSessionID {
				marker = "*"
			}
			fmt.Printf("%s %2d. %s\n", marker, i+1, id)
		}
		return false, nil

	case "/switch":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /switch <session-id|#>")
		}
		id, err := resolveSessionArg(env.conv.State().SessionIDs, fields[1])
		if err != nil {
			return false, err
		}
		if err := env.conv.SwitchSession(ctx, id); err != nil {
			return false, nil // surfaced via notification
		}
		printTranscript(env.conv.State().Messages, false)
		return false, nil

	case "/delete":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /delete <session-id|#>")
		}
		id, err := resolveSessionArg(env.conv.State().SessionIDs, fields[1])
		if err != nil {
			return false, err
		}
		if err := env.conv.DeleteSession(ctx, id); err != nil {
			return false, nil
		}
		fmt.Printf("Deleted session %s\n", id)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

// resolveSessionArg accepts either a session id or a 1-based index into the
// known-session list as printed by /sessions.
func resolveSessionArg(ids []string, arg string) (string, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("session number %d out of range", n)
		}
		return ids[n-1], nil
	}
	return arg, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Resume an existing session by id")
}
