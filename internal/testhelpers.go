package internal

import (
	"time"
)

// CreateTestTranscript creates a transcript with one user/assistant exchange
func CreateTestTranscript(sessionID string) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Messages: []ChatMessage{
			{
				ID:        sessionID + "-user-0",
				Text:      "How do I register a business in Nigeria?",
				Sender:    SenderUser,
				Timestamp: time.Now(),
			},
			{
				ID:        sessionID + "-assistant-0",
				Text:      "You register with the Corporate Affairs Commission.",
				Sender:    SenderAssistant,
				Timestamp: time.Now(),
				Sources: []Source{
					{Source: "CAC", Excerpt: "Registration is handled by the CAC."},
				},
			},
		},
	}
}

// CreateTestHistory creates history records for a session
func CreateTestHistory(n int) []HistoryRecord {
	records := make([]HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, HistoryRecord{
			UserMessage: "question",
			BotResponse: "answer",
			Timestamp:   time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	return records
}
