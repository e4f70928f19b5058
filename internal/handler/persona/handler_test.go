package persona

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
)

func setupRouter() (*chi.Mux, *personamodel.Registry) {
	registry := personamodel.NewRegistry(personamodel.Seed())
	r := chi.NewRouter()
	New(registry).RegisterRoutes(r)
	return r, registry
}

func TestListPersonas(t *testing.T) {
	r, registry := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var personas []personamodel.Persona
	if err := json.Unmarshal(resp.Body.Bytes(), &personas); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(personas) != registry.Len() {
		t.Fatalf("expected %d personas, got %d", registry.Len(), len(personas))
	}
}

func TestRegisterReplacesEntry(t *testing.T) {
	r, registry := setupRouter()

	payload, _ := json.Marshal(personamodel.Persona{
		ID:   "mia",
		Name: "Mia Revised",
		Tone: "brisk",
	})
	req := httptest.NewRequest(http.MethodPost, "/personas", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	got, ok := registry.FindByID("mia")
	if !ok || got.Name != "Mia Revised" {
		t.Fatalf("expected entry replaced, got %+v", got)
	}
}

func TestRegisterRejectsMissingID(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(personamodel.Persona{Name: "nameless"})
	req := httptest.NewRequest(http.MethodPost, "/personas", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRegisterRejectsUnknownBackend(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"id": "x", "backend": "quantum"})
	req := httptest.NewRequest(http.MethodPost, "/personas", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
