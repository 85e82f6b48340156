package internal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Source is a citation attached to an assistant reply.
type Source struct {
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Source  string `json:"source" yaml:"source"`
}

// ChatMessage represents one conversational turn in the local log.
//
// IDs are opaque and stable for the lifetime of the message: locally created
// messages get a random id, replayed history messages get a deterministic id
// derived from session id, role and record index (see reconciler.go).
type ChatMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Sources   []Source  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Pending   bool      `json:"pending,omitempty" yaml:"pending,omitempty"`

	// DetectedLanguage is reported by the backend for finalized replies when
	// it ran language detection on the user's message.
	DetectedLanguage string `json:"detected_language,omitempty" yaml:"detected_language,omitempty"`
}

// NewMessageID returns an id for a locally created message.
func NewMessageID() string {
	return uuid.NewString()
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply from POST /chat. The backend is the sole
// authority for session ids; SessionID is always set, newly minted when the
// request carried none.
type ChatResponse struct {
	Response  string   `json:"response"`
	SessionID string   `json:"session_id"`
	Sources   []Source `json:"sources,omitempty"`
}

// HistoryRecord is one entry of GET /history/{session_id}. A record carries a
// user turn, a bot turn, or both.
type HistoryRecord struct {
	UserMessage     string  `json:"user_message,omitempty"`
	BotResponse     string  `json:"bot_response,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
	SourcesUsed     string  `json:"sources_used,omitempty"`
}

// HistoryResponse is the envelope of GET /history/{session_id}.
type HistoryResponse struct {
	History []HistoryRecord `json:"history"`
}

// RecordTime parses the record's timestamp, falling back to the supplied
// default when the record carries none or an unparseable value.
func (r HistoryRecord) RecordTime(fallback time.Time) time.Time {
	if r.Timestamp == "" {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return fallback
	}
	return ts
}

// ParseSources decodes the record's sources_used field. The backend stores
// citations as an opaque string; only a well-formed JSON citation list is
// attached to the replayed message.
func (r HistoryRecord) ParseSources() []Source {
	if r.SourcesUsed == "" {
		return nil
	}
	var sources []Source
	if err := json.Unmarshal([]byte(r.SourcesUsed), &sources); err != nil {
		return nil
	}
	return sources
}

// Transcript is a reconciled session log in exportable form.
type Transcript struct {
	SessionID string        `json:"session_id" yaml:"session_id"`
	Messages  []ChatMessage `json:"messages" yaml:"messages"`
}
