package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
)

// Handler serves live chat dispatch over a WebSocket connection.
type Handler struct {
	svc      *dispatchservice.Service
	upgrader websocket.Upgrader
}

// New creates the WebSocket handler.
func New(svc *dispatchservice.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{threadID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
	Value     string `json:"value,omitempty"`
	Persona   string `json:"persona,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	ThreadID  string      `json:"thread_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if threadID == "" {
		http.Error(w, "thread id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened thread=%s", threadID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read failed thread=%s: %v", threadID, err)
			}
			return
		}

		switch inbound.Type {
		case "dispatch":
			h.handleDispatchMessage(r, conn, threadID, inbound)
		case "ping":
			h.write(conn, outgoingMessage{Type: "pong", ThreadID: threadID})
		default:
			h.write(conn, outgoingMessage{
				Type:     "error",
				ThreadID: threadID,
				Error:    "unknown message type",
			})
		}
	}
}

func (h *Handler) handleDispatchMessage(r *http.Request, conn *websocket.Conn, threadID string, inbound inboundMessage) {
	eventType, ok := dispatchmodel.ParseEventType(inbound.EventType)
	if !ok {
		h.write(conn, outgoingMessage{
			Type:     "error",
			ThreadID: threadID,
			Error:    "event_type must be text, image or video",
		})
		return
	}
	if inbound.Value == "" {
		h.write(conn, outgoingMessage{
			Type:     "error",
			ThreadID: threadID,
			Error:    "value is required",
		})
		return
	}

	envelope := h.svc.Dispatch(r.Context(), dispatchmodel.Request{
		EventType: eventType,
		Value:     inbound.Value,
		ThreadID:  threadID,
		Persona:   inbound.Persona,
	})

	h.write(conn, outgoingMessage{
		Type:     "envelope",
		ThreadID: threadID,
		Data:     envelope,
	})
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
