package internal

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/bizbotng/bizchat/testutil"
)

func newTestConversation(t *testing.T, backendURL string) *Conversation {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	t.Cleanup(func() { _ = db.Close() })

	store := NewSessionStore(db, ":memory:")
	client := NewClient(backendURL, 5*time.Second)
	return NewConversation(store, client, NewNotifier())
}

func TestConversation_SendRoundTrip(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	backend.SetReply("You register with the Corporate Affairs Commission.", map[string]string{
		"source": "CAC", "excerpt": "Registration is handled by the CAC.",
	})
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	err := conv.Send(ctx, "How do I register a business in Nigeria?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	state := conv.State()
	if len(state.Messages) != 2 {
		t.Fatalf("Expected exactly 2 messages, got %d", len(state.Messages))
	}
	if state.Messages[0].Sender != SenderUser || state.Messages[1].Sender != SenderAssistant {
		t.Errorf("Expected user then assistant, got %+v", state.Messages)
	}
	if len(state.Messages[1].Sources) != 1 || state.Messages[1].Sources[0].Source != "CAC" {
		t.Errorf("Assistant sources = %+v", state.Messages[1].Sources)
	}

	// The server-issued session id is adopted and persisted.
	if state.CurrentSessionID != "sess-1" {
		t.Errorf("CurrentSessionID = %q, want sess-1", state.CurrentSessionID)
	}
	if !reflect.DeepEqual(state.SessionIDs, []string{"sess-1"}) {
		t.Errorf("SessionIDs = %v, want [sess-1]", state.SessionIDs)
	}

	if conv.Notifier().Current() != nil {
		t.Errorf("Notification slot not cleared: %+v", conv.Notifier().Current())
	}
}

func TestConversation_SendReusesSession(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.Send(ctx, "first"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := conv.Send(ctx, "second"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	state := conv.State()
	if state.CurrentSessionID != "sess-1" {
		t.Errorf("CurrentSessionID = %q, want sess-1", state.CurrentSessionID)
	}
	if len(state.SessionIDs) != 1 {
		t.Errorf("SessionIDs = %v, want a single id", state.SessionIDs)
	}
	if len(state.Messages) != 4 {
		t.Errorf("Expected 4 messages, got %d", len(state.Messages))
	}
}

func TestConversation_SendTransportFailureKeepsUserMessage(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	backend.FailChat(true)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	err := conv.Send(ctx, "hello")
	if err == nil {
		t.Fatal("Expected error")
	}

	state := conv.State()
	// The optimistic user message is not rolled back.
	if len(state.Messages) != 1 || state.Messages[0].Sender != SenderUser {
		t.Errorf("Messages = %+v, want the user message only", state.Messages)
	}
	if state.CurrentSessionID != "" {
		t.Errorf("No session should be adopted on failure, got %q", state.CurrentSessionID)
	}

	current := conv.Notifier().Current()
	if current == nil || current.Kind != NotifyError {
		t.Errorf("Notification = %+v, want error", current)
	}
}

func TestConversation_SendValidationFailure(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())

	err := conv.Send(context.Background(), "   ")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected *ValidationError, got %T", err)
	}

	if backend.ChatCalls() != 0 {
		t.Errorf("Validation failure must not reach the network, got %d calls", backend.ChatCalls())
	}
	if len(conv.State().Messages) != 0 {
		t.Errorf("Rejected message must not be appended, got %+v", conv.State().Messages)
	}

	current := conv.Notifier().Current()
	if current == nil || current.Kind != NotifyError {
		t.Errorf("Notification = %+v, want error", current)
	}
}

func TestConversation_SwitchSessionReplaysHistory(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	backend.SeedHistory("sess-9", "old question", "old answer")
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.SwitchSession(ctx, "sess-9"); err != nil {
		t.Fatalf("SwitchSession() error = %v", err)
	}

	state := conv.State()
	if state.CurrentSessionID != "sess-9" {
		t.Errorf("CurrentSessionID = %q", state.CurrentSessionID)
	}
	if len(state.Messages) != 2 {
		t.Fatalf("Expected 2 replayed messages, got %d", len(state.Messages))
	}
	if state.Messages[0].ID != "sess-9-user-0" {
		t.Errorf("Replayed id = %q", state.Messages[0].ID)
	}
}

func TestConversation_SwitchSessionFailureKeepsLog(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	before := conv.State().Messages

	backend.FailHistory(true)
	if err := conv.SwitchSession(ctx, "sess-other"); err == nil {
		t.Fatal("Expected error")
	}

	after := conv.State().Messages
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Log changed on failed switch: %+v -> %+v", before, after)
	}
}

// blockingGateway serves history only after the test releases it, to exercise
// the stale-fetch guard.
type blockingGateway struct {
	mu      sync.Mutex
	release map[string]chan struct{}
	records map[string][]HistoryRecord
	entered chan string
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		release: make(map[string]chan struct{}),
		records: make(map[string][]HistoryRecord),
		entered: make(chan string, 8),
	}
}

func (g *blockingGateway) gate(sessionID string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.release[sessionID]
	if !ok {
		ch = make(chan struct{})
		g.release[sessionID] = ch
	}
	return ch
}

func (g *blockingGateway) SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Response: "ok", SessionID: "sess-blocking"}, nil
}

func (g *blockingGateway) FetchHistory(ctx context.Context, sessionID string) ([]HistoryRecord, error) {
	g.entered <- sessionID
	<-g.gate(sessionID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.records[sessionID], nil
}

func TestConversation_StaleHistoryFetchIsDiscarded(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer db.Close()

	gateway := newBlockingGateway()
	gateway.records["sess-1"] = []HistoryRecord{{UserMessage: "from sess-1", BotResponse: "a"}}
	gateway.records["sess-2"] = []HistoryRecord{{UserMessage: "from sess-2", BotResponse: "b"}}

	conv := NewConversation(NewSessionStore(db, ":memory:"), gateway, NewNotifier())
	ctx := context.Background()

	// First switch blocks in its history fetch.
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- conv.SwitchSession(ctx, "sess-1")
	}()
	if got := <-gateway.entered; got != "sess-1" {
		t.Fatalf("Unexpected fetch for %q", got)
	}

	// Second switch completes while the first is still in flight.
	close(gateway.gate("sess-2"))
	if err := conv.SwitchSession(ctx, "sess-2"); err != nil {
		t.Fatalf("SwitchSession(sess-2) error = %v", err)
	}

	// Now let the first fetch resolve; its result is stale and must be
	// dropped.
	close(gateway.gate("sess-1"))
	if err := <-firstDone; err != nil {
		t.Fatalf("SwitchSession(sess-1) error = %v", err)
	}

	state := conv.State()
	if state.CurrentSessionID != "sess-2" {
		t.Fatalf("CurrentSessionID = %q, want sess-2", state.CurrentSessionID)
	}
	if len(state.Messages) != 2 || state.Messages[0].ID != "sess-2-user-0" {
		t.Errorf("Log was overwritten by a stale fetch: %+v", state.Messages)
	}
}

func TestConversation_DeleteActiveSessionResets(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	sessionID := conv.State().CurrentSessionID
	if sessionID == "" {
		t.Fatal("Expected an adopted session")
	}

	if err := conv.DeleteSession(ctx, sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	state := conv.State()
	if len(state.Messages) != 0 {
		t.Errorf("Expected empty log after deleting active session, got %d", len(state.Messages))
	}
	if state.CurrentSessionID != "" {
		t.Errorf("CurrentSessionID = %q, want empty", state.CurrentSessionID)
	}
	for _, id := range state.SessionIDs {
		if id == sessionID {
			t.Errorf("Deleted id %s still present in index %v", sessionID, state.SessionIDs)
		}
	}
}

func TestConversation_DeleteOtherSessionKeepsChat(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := conv.DeleteSession(ctx, "some-other-session"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	state := conv.State()
	if len(state.Messages) != 2 {
		t.Errorf("Deleting another session must not touch the log, got %d messages", len(state.Messages))
	}
	if state.CurrentSessionID == "" {
		t.Error("Current session must survive deleting another id")
	}
}

func TestConversation_NewChatKeepsIndex(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	conv := newTestConversation(t, backend.URL())
	ctx := context.Background()

	if err := conv.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	conv.NewChat()

	state := conv.State()
	if len(state.Messages) != 0 || state.CurrentSessionID != "" {
		t.Errorf("NewChat did not reset: %+v", state)
	}
	if len(state.SessionIDs) != 1 {
		t.Errorf("NewChat must not touch the session index, got %v", state.SessionIDs)
	}
}

func TestConversation_RefreshSessionsDegradesOnStorageError(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.SeedSessionIndex(t, db, "not valid json")

	backend := testutil.NewBackendStub(t)
	store := NewSessionStore(db, ":memory:")
	conv := NewConversation(store, NewClient(backend.URL(), time.Second), NewNotifier())

	conv.RefreshSessions(context.Background())

	if got := conv.State().SessionIDs; len(got) != 0 {
		t.Errorf("Expected degraded empty index, got %v", got)
	}
	_ = db.Close()
}
