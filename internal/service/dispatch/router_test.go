package dispatch

import (
	"testing"
	"time"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

func newTestRouter(t *testing.T, tables Tables) *Router {
	t.Helper()
	r, err := NewRouter(newTestRegistry(), tables)
	if err != nil {
		t.Fatalf("NewRouter err: %v", err)
	}
	return r
}

func TestRouteExplicitHit(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	p := r.Route(dispatchmodel.ExplicitKey("solene"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "")
	if p.ID != "solene" {
		t.Fatalf("expected solene, got %s", p.ID)
	}
}

func TestRouteUnknownPersonaFallsBack(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	p := r.Route(dispatchmodel.ExplicitKey("nobody"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "")
	if p.ID != "mia" {
		t.Fatalf("expected companion default mia, got %s", p.ID)
	}
}

func TestRouteEmotionTable(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	p := r.Route(dispatchmodel.EmotionKey("anxious"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "I'm feeling very anxious today")
	if p.ID != "mia" {
		t.Fatalf("expected mia for anxious, got %s", p.ID)
	}
}

func TestRouteNoneUsesConfiguredDefault(t *testing.T) {
	tables := DefaultTables()
	tables.Defaults[sessionmodel.ModeCompanion] = "doc"
	r := newTestRouter(t, tables)

	p := r.Route(dispatchmodel.NoneKey(), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "hello")
	if p.ID != "doc" {
		t.Fatalf("expected configured default doc, got %s", p.ID)
	}
}

func TestRouteDevModeDefault(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	p := r.Route(dispatchmodel.NoneKey(), sessionmodel.Context{Mode: sessionmodel.ModeDev}, "hello")
	if p.ID != "doc" {
		t.Fatalf("expected dev default doc, got %s", p.ID)
	}
}

func TestRouteCandidatesMissingFromRegistrySkipped(t *testing.T) {
	tables := DefaultTables()
	tables.Emotion["anxious"] = []string{"ghost", "mia"}
	r := newTestRouter(t, tables)

	p := r.Route(dispatchmodel.EmotionKey("anxious"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "")
	if p.ID != "mia" {
		t.Fatalf("expected unregistered candidate skipped, got %s", p.ID)
	}
}

func TestRouteMultiCandidateTieIsDeterministic(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	// No load, no recency, no specialty overlap: scores tie and the
	// earliest-registered candidate wins.
	for i := 0; i < 5; i++ {
		p := r.Route(dispatchmodel.EmotionKey("sad"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "xyz")
		if p.ID != "mia" {
			t.Fatalf("iteration %d: expected first-registered candidate mia, got %s", i, p.ID)
		}
	}
}

func TestRouteTieBreaksByRegistrationOrderNotTableOrder(t *testing.T) {
	tables := DefaultTables()
	// doc registers after mia, so listing it first must not win the tie.
	tables.Emotion["angry"] = []string{"doc", "mia"}
	r := newTestRouter(t, tables)

	p := r.Route(dispatchmodel.EmotionKey("angry"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "xyz")
	if p.ID != "mia" {
		t.Fatalf("expected first-registered candidate mia, got %s", p.ID)
	}
}

func TestRouteLoadShiftsSelection(t *testing.T) {
	r := newTestRouter(t, DefaultTables())
	r.now = func() time.Time { return time.Unix(1700000000, 0) }

	// Pile load onto mia; solene becomes the better sad candidate.
	for i := 0; i < 4; i++ {
		r.RecordUse("mia")
	}

	p := r.Route(dispatchmodel.EmotionKey("sad"), sessionmodel.Context{Mode: sessionmodel.ModeCompanion}, "xyz")
	if p.ID != "solene" {
		t.Fatalf("expected load-balanced pick solene, got %s", p.ID)
	}
}

func TestRecordUseAndDecayFloor(t *testing.T) {
	r := newTestRouter(t, DefaultTables())

	r.RecordUse("mia")
	if load := r.Load("mia"); load <= 0 {
		t.Fatalf("expected positive load after use, got %f", load)
	}

	for i := 0; i < 50; i++ {
		r.DecayTick()
	}
	if load := r.Load("mia"); load != 0 {
		t.Fatalf("expected decay floor at zero, got %f", load)
	}

	// Decay on an untouched router is a no-op.
	r.DecayTick()
	if load := r.Load("solene"); load != 0 {
		t.Fatalf("expected zero load for unused persona, got %f", load)
	}
}

func TestNewRouterRejectsUnknownDefault(t *testing.T) {
	tables := DefaultTables()
	tables.Defaults[sessionmodel.ModeCompanion] = "ghost"

	if _, err := NewRouter(newTestRegistry(), tables); err == nil {
		t.Fatal("expected error for unregistered default persona")
	}
}

// Total-routing invariant: for any classified input, the router returns
// exactly one persona that exists in the registry.
func TestRouteAlwaysResolvesRegisteredPersona(t *testing.T) {
	registry := newTestRegistry()
	classifier := NewClassifier(registry, DefaultPatterns())
	router, err := NewRouter(registry, DefaultTables())
	if err != nil {
		t.Fatalf("NewRouter err: %v", err)
	}

	messages := []string{
		"Ask the Dreamer to tell a story",
		"I'm feeling very anxious today",
		"hello",
		"please analyse the numbers",
		"paint me something quiet",
		"",
		"!!!",
		"talk to someone who is not registered",
	}
	overrides := []string{"", "solene", "nobody"}

	for _, msg := range messages {
		for _, override := range overrides {
			sctx := sessionmodel.Context{Mode: sessionmodel.ModeCompanion}
			key := classifier.Classify(msg, sctx, override)
			p := router.Route(key, sctx, msg)
			if p.ID == "" {
				t.Fatalf("message %q override %q: routed to empty persona", msg, override)
			}
			if _, ok := registry.FindByID(p.ID); !ok {
				t.Fatalf("message %q override %q: routed to unregistered persona %s", msg, override, p.ID)
			}
		}
	}
}
