package internal

import (
	"fmt"
	"testing"
	"time"
)

func TestApply_AddMessagePreservesOrder(t *testing.T) {
	state := NewChatState()

	for i := 0; i < 10; i++ {
		state = Apply(state, AddMessage{Message: ChatMessage{
			ID:     fmt.Sprintf("msg-%d", i),
			Text:   fmt.Sprintf("message %d", i),
			Sender: SenderUser,
		}})
	}

	if len(state.Messages) != 10 {
		t.Fatalf("Expected 10 messages, got %d", len(state.Messages))
	}
	for i, msg := range state.Messages {
		if msg.ID != fmt.Sprintf("msg-%d", i) {
			t.Errorf("Message %d has id %q, expected msg-%d", i, msg.ID, i)
		}
	}
}

func TestApply_AddMessageDoesNotMutateInput(t *testing.T) {
	state := Apply(NewChatState(), AddMessage{Message: ChatMessage{ID: "a"}})
	next := Apply(state, AddMessage{Message: ChatMessage{ID: "b"}})

	if len(state.Messages) != 1 {
		t.Errorf("Input state was mutated: %d messages", len(state.Messages))
	}
	if len(next.Messages) != 2 {
		t.Errorf("Expected 2 messages in next state, got %d", len(next.Messages))
	}
}

func TestApply_UpdateMessage(t *testing.T) {
	state := NewChatState()
	state = Apply(state, AddMessage{Message: ChatMessage{ID: "a", Text: "draft", Pending: true}})

	state = Apply(state, UpdateMessage{ID: "a", Text: "final"})

	if state.Messages[0].Text != "final" {
		t.Errorf("Text = %q, expected final", state.Messages[0].Text)
	}
	if state.Messages[0].Pending {
		t.Error("Pending flag should be cleared by update")
	}
}

func TestApply_UpdateMessageUnknownIDIsIdentity(t *testing.T) {
	state := NewChatState()
	state = Apply(state, AddMessage{Message: ChatMessage{ID: "a", Text: "original"}})

	next := Apply(state, UpdateMessage{ID: "missing", Text: "changed"})

	if len(next.Messages) != 1 || next.Messages[0].Text != "original" {
		t.Errorf("Update with unknown id changed the log: %+v", next.Messages)
	}
}

func TestApply_ResetChat(t *testing.T) {
	state := NewChatState()
	state = Apply(state, AddMessage{Message: ChatMessage{ID: "a"}})
	state = Apply(state, SetCurrentSession{ID: "sess-1"})
	state = Apply(state, SetSessionIDs{IDs: []string{"sess-1", "sess-0"}})

	state = Apply(state, ResetChat{})

	if len(state.Messages) != 0 {
		t.Errorf("Expected empty log after reset, got %d messages", len(state.Messages))
	}
	if state.CurrentSessionID != "" {
		t.Errorf("Expected no current session after reset, got %q", state.CurrentSessionID)
	}
	if len(state.SessionIDs) != 2 {
		t.Errorf("Reset must not touch session index, got %v", state.SessionIDs)
	}
}

func TestApply_LoadSessionMessagesReplacesLog(t *testing.T) {
	state := NewChatState()
	state = Apply(state, AddMessage{Message: ChatMessage{ID: "old"}})

	replacement := []ChatMessage{
		{ID: "sess-1-user-0", Sender: SenderUser, Timestamp: time.Now()},
		{ID: "sess-1-assistant-0", Sender: SenderAssistant, Timestamp: time.Now()},
	}
	state = Apply(state, LoadSessionMessages{Messages: replacement})

	if len(state.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(state.Messages))
	}
	if state.Messages[0].ID != "sess-1-user-0" {
		t.Errorf("Log was not replaced wholesale: %+v", state.Messages)
	}
}

func TestApply_SetSessionIDsCopiesInput(t *testing.T) {
	ids := []string{"sess-1"}
	state := Apply(NewChatState(), SetSessionIDs{IDs: ids})

	ids[0] = "mutated"
	if state.SessionIDs[0] != "sess-1" {
		t.Error("SetSessionIDs must copy the input slice")
	}
}

func TestApply_SetCurrentSession(t *testing.T) {
	state := Apply(NewChatState(), SetCurrentSession{ID: "sess-1"})
	if state.CurrentSessionID != "sess-1" {
		t.Errorf("CurrentSessionID = %q", state.CurrentSessionID)
	}

	state = Apply(state, SetCurrentSession{ID: ""})
	if state.CurrentSessionID != "" {
		t.Errorf("Expected cleared session, got %q", state.CurrentSessionID)
	}
}
