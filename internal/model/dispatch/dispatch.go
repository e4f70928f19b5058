package dispatch

// EventType is the kind of payload carried by a dispatch request.
type EventType string

const (
	EventText  EventType = "text"
	EventImage EventType = "image"
	EventVideo EventType = "video"
)

// ParseEventType validates a wire-level event type, defaulting empty to text.
func ParseEventType(raw string) (EventType, bool) {
	switch EventType(raw) {
	case "":
		return EventText, true
	case EventText, EventImage, EventVideo:
		return EventType(raw), true
	default:
		return "", false
	}
}

// Request is the canonical dispatch payload accepted over HTTP and WebSocket.
type Request struct {
	EventType EventType `json:"event_type"`
	Value     string    `json:"value"`
	ThreadID  string    `json:"thread_id"`
	Persona   string    `json:"persona,omitempty"`
}

// KeyKind tags a routing key variant. The set is closed so routing can
// switch exhaustively instead of probing string-keyed maps.
type KeyKind int

const (
	// KindNone means no classification rule matched; the router resolves
	// the per-mode default persona.
	KindNone KeyKind = iota
	// KindExplicit carries a persona id requested by override or mention.
	KindExplicit
	// KindKeyword carries the name of a matched keyword pattern.
	KindKeyword
	// KindEmotion carries an inferred mood label.
	KindEmotion
)

// String names the kind for logs.
func (k KeyKind) String() string {
	switch k {
	case KindExplicit:
		return "explicit"
	case KindKeyword:
		return "keyword"
	case KindEmotion:
		return "emotion"
	default:
		return "none"
	}
}

// RoutingKey is the classification result for a single request. Produced
// fresh per request, never persisted.
type RoutingKey struct {
	Kind  KeyKind
	Value string
}

// ExplicitKey builds a routing key for a directly requested persona.
func ExplicitKey(id string) RoutingKey { return RoutingKey{Kind: KindExplicit, Value: id} }

// KeywordKey builds a routing key for a matched keyword pattern.
func KeywordKey(name string) RoutingKey { return RoutingKey{Kind: KindKeyword, Value: name} }

// EmotionKey builds a routing key for an inferred mood label.
func EmotionKey(label string) RoutingKey { return RoutingKey{Kind: KindEmotion, Value: label} }

// NoneKey builds the empty routing key.
func NoneKey() RoutingKey { return RoutingKey{Kind: KindNone} }

// Envelope statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Signals carries mood and symbol detection attached to an envelope.
type Signals struct {
	Mood    string   `json:"mood,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// Envelope is the normalized dispatch result returned to callers.
type Envelope struct {
	Persona string   `json:"persona"`
	Value   string   `json:"value"`
	Status  string   `json:"status"`
	Signals *Signals `json:"signals,omitempty"`
}
