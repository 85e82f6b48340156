package internal

import (
	"context"
	"fmt"
	"time"
)

// HistoryFetcher is the slice of the transport gateway the reconciler needs.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, sessionID string) ([]HistoryRecord, error)
}

// Reconciler replaces local message state with a freshly fetched, transformed
// server history for a given session.
type Reconciler struct {
	fetcher  HistoryFetcher
	notifier *Notifier
	now      func() time.Time
}

// NewReconciler creates a Reconciler.
func NewReconciler(fetcher HistoryFetcher, notifier *Notifier) *Reconciler {
	return &Reconciler{
		fetcher:  fetcher,
		notifier: notifier,
		now:      time.Now,
	}
}

// LoadSession fetches and replays the history for a session. A "loading"
// notification is live for the duration and cleared on every exit path. On
// failure the caller's log is untouched; the error is also surfaced as an
// error notification.
func (r *Reconciler) LoadSession(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	release := r.notifier.Loading("Loading conversation history...")
	defer release()

	records, err := r.fetcher.FetchHistory(ctx, sessionID)
	if err != nil {
		LogError("Failed to fetch history for session %s: %v", sessionID, err)
		r.notifier.Publish(Notification{
			Message: "Could not load conversation history",
			Kind:    NotifyError,
		})
		return nil, &ReconcileError{SessionID: sessionID, Err: err}
	}

	return ReplayHistory(sessionID, records, r.now()), nil
}

// ReplayHistory transforms remote history records into the local log format,
// preserving record order. A record contributes a user turn, a bot turn, or
// both. Message ids are derived as {sessionID}-{role}-{index}, so replaying
// the same session twice yields identical ids and the log can be replaced
// wholesale. The fallback timestamp is used only when a record supplies none.
func ReplayHistory(sessionID string, records []HistoryRecord, fallback time.Time) []ChatMessage {
	messages := make([]ChatMessage, 0, len(records)*2)

	for i, record := range records {
		ts := record.RecordTime(fallback)

		if record.UserMessage != "" {
			messages = append(messages, ChatMessage{
				ID:        replayID(sessionID, SenderUser, i),
				Text:      record.UserMessage,
				Sender:    SenderUser,
				Timestamp: ts,
			})
		}
		if record.BotResponse != "" {
			messages = append(messages, ChatMessage{
				ID:        replayID(sessionID, SenderAssistant, i),
				Text:      record.BotResponse,
				Sender:    SenderAssistant,
				Timestamp: ts,
				Sources:   record.ParseSources(),
			})
		}
	}

	return messages
}

func replayID(sessionID string, sender Sender, index int) string {
	return fmt.Sprintf("%s-%s-%d", sessionID, sender, index)
}
