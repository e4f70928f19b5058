package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

// Load scoring weights and maintenance constants.
const (
	loadWeight      = 0.5
	recencyWeight   = 0.3
	specialtyWeight = 0.2

	useWeight     = 0.25
	decayStep     = 0.1
	recencyWindow = 5 * time.Minute
)

// Tables holds the static routing configuration: ordered candidate lists per
// keyword pattern and per mood label, and the default persona per mode.
type Tables struct {
	Keyword  map[string][]string
	Emotion  map[string][]string
	Defaults map[sessionmodel.Mode]string
}

// DefaultTables returns the built-in routing tables for the seed roster.
func DefaultTables() Tables {
	return Tables{
		Keyword: map[string][]string{
			"dream":   {"the-dreamer", "solene"},
			"analyze": {"doc"},
			"reflect": {"solene", "doc"},
			"paint":   {"solene"},
			"story":   {"the-dreamer"},
		},
		Emotion: map[string][]string{
			"anxious": {"mia"},
			"sad":     {"mia", "solene"},
			"angry":   {"doc", "mia"},
			"happy":   {"the-dreamer", "mia"},
			"excited": {"the-dreamer"},
			"calm":    {"solene"},
		},
		Defaults: map[sessionmodel.Mode]string{
			sessionmodel.ModeCompanion: "mia",
			sessionmodel.ModeDev:       "doc",
		},
	}
}

type loadState struct {
	load     float64
	lastUsed time.Time
}

// Router resolves a routing key to exactly one registered persona. Explicit
// ids that miss the registry fall through to the table/default path; the
// default path never fails, so routing is total as long as the configured
// defaults exist (validated at construction).
type Router struct {
	personas personamodel.Store
	tables   Tables
	now      func() time.Time

	mu    sync.Mutex
	state map[string]*loadState
}

// NewRouter validates the tables against the roster and builds a router.
func NewRouter(personas personamodel.Store, tables Tables) (*Router, error) {
	if len(personas.List()) == 0 {
		return nil, fmt.Errorf("persona roster is empty")
	}
	for mode, id := range tables.Defaults {
		if _, ok := personas.FindByID(id); !ok {
			return nil, fmt.Errorf("default persona %q for mode %q is not registered", id, mode)
		}
	}

	return &Router{
		personas: personas,
		tables:   tables,
		now:      time.Now,
		state:    make(map[string]*loadState),
	}, nil
}

// Route selects one persona for the request. The message is consulted only
// for specialty overlap when a candidate list needs scoring.
func (r *Router) Route(key dispatchmodel.RoutingKey, sctx sessionmodel.Context, message string) personamodel.Persona {
	switch key.Kind {
	case dispatchmodel.KindExplicit:
		if p, ok := r.personas.FindByID(key.Value); ok {
			return p
		}
		log.Printf("[router] unknown persona %q requested, falling back to default", key.Value)
	case dispatchmodel.KindKeyword:
		if p, ok := r.pick(r.tables.Keyword[key.Value], message); ok {
			return p
		}
	case dispatchmodel.KindEmotion:
		if p, ok := r.pick(r.tables.Emotion[key.Value], message); ok {
			return p
		}
	}

	return r.defaultPersona(sctx.Mode)
}

// pick filters candidates down to registered personas and scores them when
// more than one survives. Candidates are walked in registry order and a
// strictly greater score wins, so ties resolve to the earliest-registered
// candidate regardless of table order.
func (r *Router) pick(candidates []string, message string) (personamodel.Persona, bool) {
	wanted := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		wanted[id] = true
	}

	var present []personamodel.Persona
	for _, p := range r.personas.List() {
		if wanted[p.ID] {
			present = append(present, p)
		}
	}

	switch len(present) {
	case 0:
		return personamodel.Persona{}, false
	case 1:
		return present[0], true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	best := present[0]
	bestScore := r.scoreLocked(present[0], message)
	for _, p := range present[1:] {
		if score := r.scoreLocked(p, message); score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best, true
}

// scoreLocked computes the load/recency/specialty score. Caller holds r.mu.
func (r *Router) scoreLocked(p personamodel.Persona, message string) float64 {
	st := r.state[p.ID]
	load := 0.0
	recency := 1.0
	if st != nil {
		load = clamp01(st.load)
		if !st.lastUsed.IsZero() {
			since := r.now().Sub(st.lastUsed)
			recency = clamp01(float64(since) / float64(recencyWindow))
		}
	}

	return loadWeight*(1-load) + recencyWeight*recency + specialtyWeight*specialtyOverlap(message, p.Specialties)
}

func specialtyOverlap(message string, specialties []string) float64 {
	if len(specialties) == 0 {
		return 0
	}
	normalized := strings.ToLower(message)
	hits := 0
	for _, s := range specialties {
		if strings.Contains(normalized, strings.ToLower(s)) {
			hits++
		}
	}
	return float64(hits) / float64(len(specialties))
}

func (r *Router) defaultPersona(mode sessionmodel.Mode) personamodel.Persona {
	if id, ok := r.tables.Defaults[mode]; ok {
		if p, ok := r.personas.FindByID(id); ok {
			return p
		}
	}
	if id, ok := r.tables.Defaults[sessionmodel.ModeCompanion]; ok {
		if p, ok := r.personas.FindByID(id); ok {
			return p
		}
	}
	// Validated non-empty at construction.
	return r.personas.List()[0]
}

// RecordUse bumps the selected persona's load and stamps last use. Called
// after the capability I/O completes so no lock is held across the call.
func (r *Router) RecordUse(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state[id]
	if st == nil {
		st = &loadState{}
		r.state[id] = st
	}
	st.load += useWeight
	st.lastUsed = r.now()
}

// Load reports the current load counter for a persona.
func (r *Router) Load(id string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st := r.state[id]; st != nil {
		return st.load
	}
	return 0
}

// DecayTick applies one maintenance decay step. Idempotent per tick; load
// never goes below zero.
func (r *Router) DecayTick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.state {
		st.load -= decayStep
		if st.load < 0 {
			st.load = 0
		}
	}
}

// StartMaintenance runs the periodic load decay until ctx is cancelled.
func (r *Router) StartMaintenance(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.DecayTick()
			}
		}
	}()
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
