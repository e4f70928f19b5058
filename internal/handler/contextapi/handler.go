package contextapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
	sessionservice "github.com/hearthlabs/hearth/backend/internal/service/session"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// Handler serves the thread context endpoints.
type Handler struct {
	sessions *sessionservice.Store
	personas personamodel.Store
}

// New creates the context handler.
func New(sessions *sessionservice.Store, personas personamodel.Store) *Handler {
	return &Handler{sessions: sessions, personas: personas}
}

// RegisterRoutes mounts the context routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/context/set", h.handleSet)
	r.Get("/context/{threadID}", h.handleGet)
}

func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ThreadID string `json:"thread_id"`
		Mode     string `json:"mode"`
		Persona  string `json:"persona"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ThreadID == "" {
		utils.RespondError(w, http.StatusBadRequest, "thread_id is required")
		return
	}

	mode := sessionmodel.ModeCompanion
	if payload.Mode != "" {
		parsed, ok := sessionmodel.ParseMode(payload.Mode)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "mode must be companion or dev")
			return
		}
		mode = parsed
	}

	if payload.Persona != "" {
		if _, ok := h.personas.FindByID(payload.Persona); !ok {
			utils.RespondError(w, http.StatusBadRequest, "persona not found")
			return
		}
	}

	ctx := h.sessions.Set(payload.ThreadID, mode, payload.Persona)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"context": ctx,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if threadID == "" {
		utils.RespondError(w, http.StatusBadRequest, "thread id is required")
		return
	}

	// Reads always succeed: unknown threads materialize as defaults.
	ctx := h.sessions.Get(threadID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"thread_id": threadID,
		"context":   ctx,
	})
}
