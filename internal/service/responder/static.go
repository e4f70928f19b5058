package responder

import (
	"context"
	"math/rand"
	"sync"
	"time"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
)

// StaticCapability answers from the persona's template variants. The random
// source is injected so tests can seed it and assert deterministically.
type StaticCapability struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStaticCapability builds the template capability. A nil rng gets a
// time-seeded source.
func NewStaticCapability(rng *rand.Rand) *StaticCapability {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StaticCapability{rng: rng}
}

// Respond picks one template variant. Non-text events get a short
// acknowledgement since templates are written for text.
func (c *StaticCapability) Respond(_ context.Context, p personamodel.Persona, req Request) (string, error) {
	if req.EventType != dispatchmodel.EventText {
		return p.Name + " looks at what you shared and nods. Tell me about it in your own words?", nil
	}

	variants := p.Templates
	if len(variants) == 0 {
		if p.OpeningLine != "" {
			return p.OpeningLine, nil
		}
		return p.Name + " is listening.", nil
	}

	c.mu.Lock()
	idx := c.rng.Intn(len(variants))
	c.mu.Unlock()

	return variants[idx], nil
}
