package internal

// ChatState is the in-memory state of the active conversation: the ordered
// message log, the active session (empty string when the conversation is
// fresh and unsaved), and a mirror of the persisted session-id index.
type ChatState struct {
	Messages         []ChatMessage
	CurrentSessionID string
	SessionIDs       []string
}

// NewChatState returns the initial state: empty log, no session, empty index.
func NewChatState() ChatState {
	return ChatState{
		Messages:   []ChatMessage{},
		SessionIDs: []string{},
	}
}

// Action is a state transition request. Each transition produces one new
// state value; no transition partially applies. The state machine records
// facts already decided elsewhere and has no knowledge of transport.
type Action interface {
	isAction()
}

// AddMessage appends a message to the log.
type AddMessage struct {
	Message ChatMessage
}

// UpdateMessage replaces the text of the message with the given id and clears
// its pending flag. DetectedLanguage is recorded when non-empty. A no-op when
// no message has that id.
type UpdateMessage struct {
	ID               string
	Text             string
	DetectedLanguage string
}

// ResetChat empties the log and clears the current session. The session-id
// index is untouched: it is independent, durable history of past sessions.
type ResetChat struct{}

// SetCurrentSession sets (or with an empty id, clears) the active session.
type SetCurrentSession struct {
	ID string
}

// SetSessionIDs replaces the full session-id index, mirroring the store
// after a read.
type SetSessionIDs struct {
	IDs []string
}

// LoadSessionMessages atomically replaces the entire message log, used after
// history reconciliation.
type LoadSessionMessages struct {
	Messages []ChatMessage
}

func (AddMessage) isAction()          {}
func (UpdateMessage) isAction()       {}
func (ResetChat) isAction()           {}
func (SetCurrentSession) isAction()   {}
func (SetSessionIDs) isAction()       {}
func (LoadSessionMessages) isAction() {}

// Apply is a pure reducer: given a state and an action it returns the next
// state. The input state is never mutated; slices are copied on write so the
// returned value is safe to hold across further transitions.
func Apply(state ChatState, action Action) ChatState {
	switch a := action.(type) {
	case AddMessage:
		next := state
		next.Messages = make([]ChatMessage, 0, len(state.Messages)+1)
		next.Messages = append(next.Messages, state.Messages...)
		next.Messages = append(next.Messages, a.Message)
		return next

	case UpdateMessage:
		found := false
		for _, msg := range state.Messages {
			if msg.ID == a.ID {
				found = true
				break
			}
		}
		if !found {
			return state
		}
		next := state
		next.Messages = make([]ChatMessage, len(state.Messages))
		copy(next.Messages, state.Messages)
		for i := range next.Messages {
			if next.Messages[i].ID == a.ID {
				next.Messages[i].Text = a.Text
				next.Messages[i].Pending = false
				if a.DetectedLanguage != "" {
					next.Messages[i].DetectedLanguage = a.DetectedLanguage
				}
			}
		}
		return next

	case ResetChat:
		next := state
		next.Messages = []ChatMessage{}
		next.CurrentSessionID = ""
		return next

	case SetCurrentSession:
		next := state
		next.CurrentSessionID = a.ID
		return next

	case SetSessionIDs:
		next := state
		next.SessionIDs = make([]string, len(a.IDs))
		copy(next.SessionIDs, a.IDs)
		return next

	case LoadSessionMessages:
		next := state
		next.Messages = make([]ChatMessage, len(a.Messages))
		copy(next.Messages, a.Messages)
		return next

	default:
		return state
	}
}
