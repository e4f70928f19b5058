package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	contextHandler "github.com/hearthlabs/hearth/backend/internal/handler/contextapi"
	dispatchHandler "github.com/hearthlabs/hearth/backend/internal/handler/dispatch"
	memoryHandler "github.com/hearthlabs/hearth/backend/internal/handler/memoryapi"
	personaHandler "github.com/hearthlabs/hearth/backend/internal/handler/persona"
	streamHandler "github.com/hearthlabs/hearth/backend/internal/handler/stream"
	wsHandler "github.com/hearthlabs/hearth/backend/internal/handler/ws"
	middlewarePkg "github.com/hearthlabs/hearth/backend/internal/middleware"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	aiservice "github.com/hearthlabs/hearth/backend/internal/service/ai"
	dispatchservice "github.com/hearthlabs/hearth/backend/internal/service/dispatch"
	memoryservice "github.com/hearthlabs/hearth/backend/internal/service/memory"
	sessionservice "github.com/hearthlabs/hearth/backend/internal/service/session"
	"github.com/hearthlabs/hearth/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc and journal may be nil.
func NewRouter(registry *personamodel.Registry, dispatchSvc *dispatchservice.Service, aiSvc *aiservice.Service, sessions *sessionservice.Store, journal *memoryservice.Journal) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	streaming := streamHandler.New(aiSvc, dispatchSvc)

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(registry).RegisterRoutes(api)
		dispatchHandler.New(dispatchSvc).RegisterRoutes(api)
		contextHandler.New(sessions, registry).RegisterRoutes(api)
		wsHandler.New(dispatchSvc).RegisterRoutes(api)

		if journal != nil {
			memoryHandler.New(journal).RegisterRoutes(api)
		}

		api.Get("/stream/{threadID}", func(w http.ResponseWriter, r *http.Request) {
			threadID := chi.URLParam(r, "threadID")
			message := r.URL.Query().Get("message")
			if message == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			req := dispatchmodel.Request{
				EventType: dispatchmodel.EventText,
				Value:     message,
				ThreadID:  threadID,
				Persona:   r.URL.Query().Get("persona"),
			}

			if err := streaming.HandleStreamRequest(r.Context(), w, req); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
