package memoryapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	memoryservice "github.com/hearthlabs/hearth/backend/internal/service/memory"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// Handler exposes the journal tail for inspection.
type Handler struct {
	journal *memoryservice.Journal
}

// New creates the memory handler.
func New(journal *memoryservice.Journal) *Handler {
	return &Handler{journal: journal}
}

// RegisterRoutes mounts the memory routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/memories", h.handleRecent)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.journal.Recent(limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to read journal")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
