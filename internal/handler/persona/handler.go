package persona

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// Handler serves the persona roster endpoints.
type Handler struct {
	registry *personamodel.Registry
}

// New creates the persona handler.
func New(registry *personamodel.Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleList)
	r.Post("/personas", h.handleRegister)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.registry.List())
}

// handleRegister adds or replaces a roster entry. Replacement is whole-entry
// and atomic, which is the only runtime mutation the registry supports.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var p personamodel.Persona
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if p.Backend != "" && p.Backend != personamodel.BackendStatic && p.Backend != personamodel.BackendModel {
		utils.RespondError(w, http.StatusBadRequest, "backend must be static or model")
		return
	}

	if err := h.registry.Register(p); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"status": "ok", "id": p.ID})
}
