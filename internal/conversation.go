package internal

import (
	"context"
	"sync"
	"time"
)

// Gateway is the transport surface the conversation driver depends on.
// Satisfied by *Client; tests substitute a stub.
type Gateway interface {
	SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	FetchHistory(ctx context.Context, sessionID string) ([]HistoryRecord, error)
}

// Conversation wires the session store, state machine, transport gateway,
// reconciler and notifier into the chat flow: optimistic append, send, merge
// reply, persist new session ids, reconcile on session switch.
type Conversation struct {
	mu         sync.Mutex
	state      ChatState
	store      *SessionStore
	gateway    Gateway
	reconciler *Reconciler
	notifier   *Notifier
	now        func() time.Time
}

// NewConversation creates a Conversation with an empty log and no active
// session.
func NewConversation(store *SessionStore, gateway Gateway, notifier *Notifier) *Conversation {
	return &Conversation{
		state:      NewChatState(),
		store:      store,
		gateway:    gateway,
		reconciler: NewReconciler(gateway, notifier),
		notifier:   notifier,
		now:        time.Now,
	}
}

// State returns a snapshot of the current chat state.
func (c *Conversation) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notifier exposes the notification channel for subscribers.
func (c *Conversation) Notifier() *Notifier {
	return c.notifier
}

// RefreshSessions mirrors the persisted session-id index into the state
// machine. A storage failure degrades to an empty index rather than failing
// the chat: conversations work even when history cannot be saved.
func (c *Conversation) RefreshSessions(ctx context.Context) {
	ids, err := c.store.SessionIDs(ctx)
	if err != nil {
		LogError("Failed to read session index: %v", err)
		ids = []string{}
	}
	c.apply(SetSessionIDs{IDs: ids})
}

// Send validates and sends a user message. The user message is appended
// optimistically and is not rolled back on transport failure; the failure
// surfaces as an error notification instead.
func (c *Conversation) Send(ctx context.Context, text string) error {
	if err := ValidateMessage(text); err != nil {
		c.notifier.Publish(Notification{Message: err.Error(), Kind: NotifyError})
		return err
	}

	c.apply(AddMessage{Message: ChatMessage{
		ID:        NewMessageID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: c.now(),
	}})

	release := c.notifier.Loading("Thinking...")
	defer release()

	sessionID := c.State().CurrentSessionID
	resp, err := c.gateway.SendMessage(ctx, ChatRequest{Message: text, SessionID: sessionID})
	if err != nil {
		LogError("Failed to send message: %v", err)
		c.notifier.Publish(Notification{
			Message: "Could not reach the assistant, please try again",
			Kind:    NotifyError,
		})
		return err
	}

	c.apply(AddMessage{Message: ChatMessage{
		ID:        NewMessageID(),
		Text:      resp.Response,
		Sender:    SenderAssistant,
		Timestamp: c.now(),
		Sources:   resp.Sources,
	}})

	if resp.SessionID != "" && resp.SessionID != sessionID {
		c.adoptSession(ctx, resp.SessionID)
	}

	return nil
}

// SwitchSession makes sessionID the active session and replaces the log with
// its reconciled history. Each fetch is tagged with the session it was issued
// for; a result arriving after the user has moved on is discarded, so a slow
// fetch never overwrites a newer session's log. On fetch failure the existing
// log is left untouched.
func (c *Conversation) SwitchSession(ctx context.Context, sessionID string) error {
	c.apply(SetCurrentSession{ID: sessionID})

	messages, err := c.reconciler.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentSessionID != sessionID {
		LogDebug("Discarding stale history for session %s", sessionID)
		return nil
	}
	c.state = Apply(c.state, LoadSessionMessages{Messages: messages})
	return nil
}

// AttachSession tags the conversation with an existing session id without
// replaying its history. Used by one-shot sends that continue a session.
func (c *Conversation) AttachSession(sessionID string) {
	c.apply(SetCurrentSession{ID: sessionID})
}

// NewChat resets to a fresh, unsaved conversation. The session-id index is
// untouched.
func (c *Conversation) NewChat() {
	c.apply(ResetChat{})
}

// DeleteSession removes a session id from the persisted index. Deleting the
// active session also resets the chat.
func (c *Conversation) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.store.RemoveSessionID(ctx, sessionID); err != nil {
		LogError("Failed to delete session %s: %v", sessionID, err)
		c.notifier.Publish(Notification{Message: "Could not delete session", Kind: NotifyError})
		return err
	}

	if c.State().CurrentSessionID == sessionID {
		c.apply(ResetChat{})
	}
	c.RefreshSessions(ctx)
	return nil
}

// ClearSessions empties the persisted index. An active session keeps its
// in-memory log but is reset along with the index it belonged to.
func (c *Conversation) ClearSessions(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		LogError("Failed to clear session index: %v", err)
		c.notifier.Publish(Notification{Message: "Could not clear sessions", Kind: NotifyError})
		return err
	}

	if c.State().CurrentSessionID != "" {
		c.apply(ResetChat{})
	}
	c.apply(SetSessionIDs{IDs: []string{}})
	return nil
}

// adoptSession records a server-issued session id: set active, persist in the
// index, mirror the index back into state. Persistence failure degrades to a
// log line; the conversation itself keeps working.
func (c *Conversation) adoptSession(ctx context.Context, sessionID string) {
	c.apply(SetCurrentSession{ID: sessionID})
	if err := c.store.AddSessionID(ctx, sessionID); err != nil {
		LogError("Failed to persist session %s: %v", sessionID, err)
		return
	}
	c.RefreshSessions(ctx)
}

func (c *Conversation) apply(action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Apply(c.state, action)
}
