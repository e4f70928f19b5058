package ai

import (
	"fmt"
	"strings"

	"github.com/hearthlabs/hearth/backend/internal/analysis/mood"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
)

// BuildSystemPrompt assembles the persona system prompt, including mode and
// mood guidance for the current request.
func BuildSystemPrompt(p personamodel.Persona, req responder.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s.\n\n", p.Name, p.Title)
	fmt.Fprintf(&b, "Character:\n- Name: %s\n- Tone: %s\n", p.Name, p.Tone)
	if len(p.Specialties) > 0 {
		fmt.Fprintf(&b, "- Specialties: %s\n", strings.Join(p.Specialties, ", "))
	}
	if p.PromptHint != "" {
		fmt.Fprintf(&b, "- Guidance: %s\n", p.PromptHint)
	}

	b.WriteString("\nStay in character at all times. You share a quiet hearth-side room with the user; keep the atmosphere personal and unhurried.\n")

	if req.Mode == sessionmodel.ModeDev {
		b.WriteString("\nThe thread is in dev mode: favor concise, structured, analytical answers over atmosphere.\n")
	}

	switch req.EventType {
	case dispatchmodel.EventImage:
		b.WriteString("\nThe user shared an image; respond to what it might show and invite them to describe it.\n")
	case dispatchmodel.EventVideo:
		b.WriteString("\nThe user shared a video; respond to what it might show and invite them to describe it.\n")
	}

	if guidance := describeMood(req.Mood); guidance != "" {
		fmt.Fprintf(&b, "\nMood read of the user's message: %s (intensity about %.1f of 5). Let that shape your tone before anything else.\n", guidance, req.Mood.Scale)
	}

	if p.OpeningLine != "" {
		fmt.Fprintf(&b, "\nVoice reference: %q\n", p.OpeningLine)
	}

	return b.String()
}

func describeMood(d mood.Decision) string {
	switch d.Mood {
	case mood.Happy:
		return "the user sounds happy; keep the reply light and appreciative"
	case mood.Sad:
		return "the user sounds low; comfort gently before anything else"
	case mood.Angry:
		return "the user sounds frustrated; stay steady and de-escalate"
	case mood.Anxious:
		return "the user sounds anxious; slow down and reassure"
	case mood.Excited:
		return "the user sounds excited; match the energy"
	case mood.Calm:
		return "the user sounds settled; keep the pace soft"
	case mood.Comfort:
		return "the user needs comforting; prioritize warmth"
	default:
		return ""
	}
}
