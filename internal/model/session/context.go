package session

// Mode selects which conversational register a thread runs in.
type Mode string

const (
	ModeCompanion Mode = "companion"
	ModeDev       Mode = "dev"
)

// ParseMode validates a wire-level mode string.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeCompanion:
		return ModeCompanion, true
	case ModeDev:
		return ModeDev, true
	default:
		return "", false
	}
}

// Context captures per-thread conversational state. At most one persona is
// active for a thread at any time.
type Context struct {
	ThreadID      string `json:"thread_id"`
	Mode          Mode   `json:"mode"`
	ActivePersona string `json:"persona,omitempty"`
}
