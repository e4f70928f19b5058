package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// Handler serves the chat dispatch endpoint.
type Handler struct {
	svc *dispatchservice.Service
}

// New creates the dispatch handler.
func New(svc *dispatchservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the dispatch routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/dispatch", h.handleDispatch)
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EventType string `json:"event_type"`
		Value     string `json:"value"`
		ThreadID  string `json:"thread_id"`
		Persona   string `json:"persona"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ThreadID == "" {
		utils.RespondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}
	if payload.Value == "" {
		utils.RespondError(w, http.StatusBadRequest, "value is required")
		return
	}

	eventType, ok := dispatchmodel.ParseEventType(payload.EventType)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "event_type must be text, image or video")
		return
	}

	envelope := h.svc.Dispatch(r.Context(), dispatchmodel.Request{
		EventType: eventType,
		Value:     payload.Value,
		ThreadID:  payload.ThreadID,
		Persona:   payload.Persona,
	})

	// Backend failures surface as a status:error envelope, not an HTTP error.
	utils.RespondJSON(w, http.StatusOK, envelope)
}
