package responder

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/hearthlabs/hearth/backend/internal/analysis/mood"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

// DefaultTimeout bounds a single capability call.
const DefaultTimeout = 20 * time.Second

// Request bundles everything a capability may consult to produce a reply.
type Request struct {
	ThreadID  string
	EventType dispatchmodel.EventType
	Message   string
	Mode      sessionmodel.Mode
	Mood      mood.Decision
}

// Capability produces a persona's reply text. Implementations are external
// collaborators (canned templates, chat model) and must be injectable.
type Capability interface {
	Respond(ctx context.Context, p personamodel.Persona, req Request) (string, error)
}

// Responder invokes the selected persona's capability and normalizes the
// outcome into an envelope. Failures degrade to a status:error envelope with
// a readable message; no error propagates to the caller and no retries
// happen at this layer.
type Responder struct {
	static  Capability
	model   Capability
	timeout time.Duration
}

// New builds a responder. model may be nil when no chat backend is
// configured; model-backed personas then answer through their templates.
func New(static, model Capability, timeout time.Duration) *Responder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Responder{static: static, model: model, timeout: timeout}
}

// Respond runs the persona's capability under a bounded timeout.
func (r *Responder) Respond(ctx context.Context, p personamodel.Persona, req Request) dispatchmodel.Envelope {
	capability := r.resolve(p.Backend)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := capability.Respond(callCtx, p, req)
	if err != nil {
		log.Printf("[responder] persona=%s backend=%s failed: %v", p.ID, p.Backend, err)
		return dispatchmodel.Envelope{
			Persona: p.ID,
			Value:   failureText(p, err),
			Status:  dispatchmodel.StatusError,
		}
	}

	return dispatchmodel.Envelope{
		Persona: p.ID,
		Value:   text,
		Status:  dispatchmodel.StatusOK,
	}
}

// resolve maps the closed backend enum to a capability.
func (r *Responder) resolve(backend personamodel.Backend) Capability {
	switch backend {
	case personamodel.BackendModel:
		if r.model != nil {
			return r.model
		}
		return r.static
	case personamodel.BackendStatic:
		return r.static
	default:
		return r.static
	}
}

func failureText(p personamodel.Persona, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return p.Name + " is taking too long to answer. Give it a moment and try again."
	}
	return p.Name + " couldn't reach their voice just now. Please try again shortly."
}
