package internal

import "strings"

// MaxMessageLength bounds a single user message. The backend truncates its
// own context window; the client rejects earlier to avoid a wasted round
// trip.
const MaxMessageLength = 2000

// ValidateMessage checks a user message before any network call. The
// returned error is a *ValidationError.
func ValidateMessage(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return &ValidationError{Reason: "message is empty"}
	}
	if len(trimmed) > MaxMessageLength {
		return &ValidationError{Reason: "message is too long"}
	}
	return nil
}
