package memory

import "time"

// Entry is one append-only journal record written after a dispatch. The
// journal is an audit trail: no dedup, no transactional guarantee.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ThreadID  string    `json:"thread_id"`
	Persona   string    `json:"persona"`
	Mood      string    `json:"mood,omitempty"`
	Trigger   string    `json:"trigger"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags,omitempty"`
}
