package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// BackendStub is an httptest stand-in for the BizBot backend. It implements
// the same contract: POST /chat assigns a session id when the request has
// none and records the exchange; GET /history/{id} replays recorded
// exchanges; GET /health reports ok.
type BackendStub struct {
	Server *httptest.Server

	mu         sync.Mutex
	nextID     int
	history    map[string][]map[string]interface{}
	reply      string
	sources    []map[string]string
	failChat   bool
	failFetch  bool
	chatCalls  int
	fetchCalls int
}

// NewBackendStub starts a stub backend. The server is shut down when the
// test finishes.
func NewBackendStub(t *testing.T) *BackendStub {
	t.Helper()
	stub := &BackendStub{
		history: make(map[string][]map[string]interface{}),
		reply:   "stub reply",
	}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.Server.Close)
	return stub
}

// URL returns the stub's base URL.
func (b *BackendStub) URL() string {
	return b.Server.URL
}

// SetReply sets the text returned from POST /chat.
func (b *BackendStub) SetReply(reply string, sources ...map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reply = reply
	b.sources = sources
}

// FailChat makes POST /chat return 500.
func (b *BackendStub) FailChat(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failChat = fail
}

// FailHistory makes GET /history return 500.
func (b *BackendStub) FailHistory(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failFetch = fail
}

// SeedHistory records a prior exchange for a session.
func (b *BackendStub) SeedHistory(sessionID, userMessage, botResponse string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history[sessionID] = append(b.history[sessionID], map[string]interface{}{
		"user_message":     userMessage,
		"bot_response":     botResponse,
		"timestamp":        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"confidence_score": 0.9,
	})
}

// ChatCalls reports how many POST /chat requests arrived.
func (b *BackendStub) ChatCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chatCalls
}

func (b *BackendStub) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/chat":
		b.handleChat(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/history/"):
		b.handleHistory(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/health":
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	default:
		http.NotFound(w, r)
	}
}

func (b *BackendStub) handleChat(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatCalls++

	if b.failChat {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		b.nextID++
		sessionID = fmt.Sprintf("sess-%d", b.nextID)
	}

	sourcesJSON, _ := json.Marshal(b.sources)
	b.history[sessionID] = append(b.history[sessionID], map[string]interface{}{
		"user_message":     req.Message,
		"bot_response":     b.reply,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"confidence_score": 0.9,
		"sources_used":     string(sourcesJSON),
	})

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"response":   b.reply,
		"session_id": sessionID,
		"sources":    b.sources,
	})
}

func (b *BackendStub) handleHistory(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetchCalls++

	if b.failFetch {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/history/")
	records := b.history[sessionID]
	if records == nil {
		records = []map[string]interface{}{}
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"history": records})
}
