package dispatch

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/hearthlabs/hearth/backend/internal/analysis/mood"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	memorymodel "github.com/hearthlabs/hearth/backend/internal/model/memory"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
	memoryservice "github.com/hearthlabs/hearth/backend/internal/service/memory"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
	sessionservice "github.com/hearthlabs/hearth/backend/internal/service/session"
)

const triggerSnippetLimit = 120

// Service orchestrates one dispatch: session context, classification,
// routing, response generation, load bookkeeping, and journaling. No lock is
// held across the capability call.
type Service struct {
	classifier *Classifier
	router     *Router
	responder  *responder.Responder
	sessions   *sessionservice.Store
	journal    *memoryservice.Journal
}

// NewService wires the dispatch pipeline. journal may be nil.
func NewService(classifier *Classifier, router *Router, resp *responder.Responder, sessions *sessionservice.Store, journal *memoryservice.Journal) *Service {
	return &Service{
		classifier: classifier,
		router:     router,
		responder:  resp,
		sessions:   sessions,
		journal:    journal,
	}
}

// Resolve runs classification and routing for a request without generating a
// response. The streaming handler reuses it to pick a persona up front.
func (s *Service) Resolve(req dispatchmodel.Request) (personamodel.Persona, sessionmodel.Context) {
	sctx := s.sessions.Get(req.ThreadID)
	key := s.classifier.Classify(req.Value, sctx, req.Persona)
	p := s.router.Route(key, sctx, req.Value)
	log.Printf("[dispatch] thread=%s key=%s:%s persona=%s", req.ThreadID, key.Kind, key.Value, p.ID)
	return p, sctx
}

// Dispatch handles one request end to end and returns the envelope.
func (s *Service) Dispatch(ctx context.Context, req dispatchmodel.Request) dispatchmodel.Envelope {
	p, sctx := s.Resolve(req)

	env := s.responder.Respond(ctx, p, responder.Request{
		ThreadID:  req.ThreadID,
		EventType: req.EventType,
		Message:   req.Value,
		Mode:      sctx.Mode,
		Mood:      mood.Detect(req.Value),
	})

	env.Signals = s.Finalize(req, p, env.Value)
	return env
}

// Finalize records the selected persona's use, updates the thread context,
// computes envelope signals, and journals the exchange. Journal failures are
// logged and swallowed: they never affect the response already computed.
func (s *Service) Finalize(req dispatchmodel.Request, p personamodel.Persona, replyText string) *dispatchmodel.Signals {
	s.router.RecordUse(p.ID)
	s.sessions.SetActivePersona(req.ThreadID, p.ID)

	decision := mood.Analyze(req.Value, replyText)
	signals := &dispatchmodel.Signals{
		Mood:    string(decision.Mood),
		Symbols: mood.Symbols(req.Value),
	}

	if s.journal != nil {
		entry := memorymodel.Entry{
			ThreadID: req.ThreadID,
			Persona:  p.ID,
			Mood:     string(decision.Mood),
			Trigger:  string(req.EventType),
			Summary:  snippet(req.Value),
			Tags:     signals.Symbols,
		}
		if err := s.journal.Append(entry); err != nil {
			log.Printf("[dispatch] journal append failed, continuing: %v", err)
		}
	}

	return signals
}

func snippet(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= triggerSnippetLimit {
		return trimmed
	}

	// Back up to a rune boundary so the cut never mangles a multi-byte rune.
	cut := triggerSnippetLimit
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut] + "..."
}
