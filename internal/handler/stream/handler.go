package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	"github.com/hearthlabs/hearth/backend/internal/analysis/mood"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	aiservice "github.com/hearthlabs/hearth/backend/internal/service/ai"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// Handler streams persona replies over Server-Sent Events.
type Handler struct {
	aiSvc       *aiservice.Service
	dispatchSvc *dispatchservice.Service
}

// New creates the stream handler.
func New(aiSvc *aiservice.Service, dispatchSvc *dispatchservice.Service) *Handler {
	return &Handler{aiSvc: aiSvc, dispatchSvc: dispatchSvc}
}

// StreamFrame is one SSE payload.
type StreamFrame struct {
	Event    string                 `json:"event"`
	Content  string                 `json:"content,omitempty"`
	ThreadID string                 `json:"thread_id,omitempty"`
	Persona  string                 `json:"persona,omitempty"`
	Signals  *dispatchmodel.Signals `json:"signals,omitempty"`
	Finished bool                   `json:"finished,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// HandleStreamRequest routes the message, then streams the reply when the
// model backend supports it; otherwise it falls back to a single envelope.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, req dispatchmodel.Request) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	p, sctx := h.dispatchSvc.Resolve(req)

	utils.SendSSEChunk(w, flusher, StreamFrame{
		Event:    "start",
		ThreadID: req.ThreadID,
		Persona:  p.ID,
	})

	if h.aiSvc == nil || !h.aiSvc.StreamingEnabled() {
		envelope := h.dispatchSvc.Dispatch(ctx, req)
		utils.SendSSEChunk(w, flusher, StreamFrame{
			Event:    "message",
			ThreadID: req.ThreadID,
			Persona:  envelope.Persona,
			Content:  envelope.Value,
			Signals:  envelope.Signals,
		})
		utils.SendSSEChunk(w, flusher, StreamFrame{Event: "end", ThreadID: req.ThreadID, Finished: true})
		return nil
	}

	capReq := responder.Request{
		ThreadID:  req.ThreadID,
		EventType: req.EventType,
		Message:   req.Value,
		Mode:      sctx.Mode,
		Mood:      mood.Detect(req.Value),
	}

	reply, err := h.streamReply(ctx, w, flusher, req.ThreadID, p, capReq)
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamFrame{
			Event: "error",
			Error: fmt.Sprintf("generation failed: %v", err),
		})
		return err
	}

	signals := h.dispatchSvc.Finalize(req, p, reply.Content)

	utils.SendSSEChunk(w, flusher, StreamFrame{
		Event:    "message",
		ThreadID: req.ThreadID,
		Persona:  p.ID,
		Content:  reply.Content,
		Signals:  signals,
	})
	utils.SendSSEChunk(w, flusher, StreamFrame{Event: "end", ThreadID: req.ThreadID, Finished: true})

	log.Printf("[stream] completed reply thread=%s persona=%s", req.ThreadID, p.ID)
	return nil
}

func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, threadID string, p personamodel.Persona, capReq responder.Request) (*schema.Message, error) {
	stream, err := h.aiSvc.Stream(ctx, p, capReq)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			utils.SendSSEChunk(w, flusher, StreamFrame{
				Event:    "delta",
				ThreadID: threadID,
				Persona:  p.ID,
				Content:  chunk.Content,
			})
		}
	}

	return schema.ConcatMessages(chunks)
}
