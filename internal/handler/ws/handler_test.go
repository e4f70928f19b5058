package ws

import (
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
	memoryservice "github.com/hearthlabs/hearth/backend/internal/service/memory"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
	sessionservice "github.com/hearthlabs/hearth/backend/internal/service/session"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()

	registry := personamodel.NewRegistry(personamodel.Seed())
	classifier := dispatchservice.NewClassifier(registry, dispatchservice.DefaultPatterns())
	router, err := dispatchservice.NewRouter(registry, dispatchservice.DefaultTables())
	if err != nil {
		t.Fatalf("NewRouter err: %v", err)
	}
	sessions, err := sessionservice.NewStore(64)
	if err != nil {
		t.Fatalf("NewStore err: %v", err)
	}
	journal, err := memoryservice.NewJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	if err != nil {
		t.Fatalf("NewJournal err: %v", err)
	}

	resp := responder.New(responder.NewStaticCapability(rand.New(rand.NewSource(1))), nil, time.Second)
	svc := dispatchservice.NewService(classifier, router, resp, sessions, journal)

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/thread-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

type testOutgoing struct {
	Type     string          `json:"type"`
	ThreadID string          `json:"thread_id"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
}

func readMessage(t *testing.T, conn *websocket.Conn) testOutgoing {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg testOutgoing
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON err: %v", err)
	}
	return msg
}

func TestWebSocketDispatchRoundTrip(t *testing.T) {
	conn := dialTestServer(t)

	err := conn.WriteJSON(map[string]string{
		"type":  "dispatch",
		"value": "I'm feeling very anxious today",
	})
	if err != nil {
		t.Fatalf("WriteJSON err: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "envelope" {
		t.Fatalf("expected envelope message, got %s (%s)", msg.Type, msg.Error)
	}
	if msg.ThreadID != "thread-1" {
		t.Fatalf("expected path thread id, got %s", msg.ThreadID)
	}

	var envelope dispatchmodel.Envelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		t.Fatalf("decode envelope err: %v", err)
	}
	if envelope.Status != dispatchmodel.StatusOK {
		t.Fatalf("expected ok status, got %s", envelope.Status)
	}
	if envelope.Persona != "mia" {
		t.Fatalf("expected anxious routing to mia, got %s", envelope.Persona)
	}
}

func TestWebSocketPing(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("WriteJSON err: %v", err)
	}

	if msg := readMessage(t, conn); msg.Type != "pong" {
		t.Fatalf("expected pong, got %s", msg.Type)
	}
}

func TestWebSocketRejectsMissingValue(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(map[string]string{"type": "dispatch"}); err != nil {
		t.Fatalf("WriteJSON err: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(map[string]string{"type": "teleport"}); err != nil {
		t.Fatalf("WriteJSON err: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}
}
