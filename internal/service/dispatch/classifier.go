package dispatch

import (
	"regexp"
	"strings"

	"github.com/hearthlabs/hearth/backend/internal/analysis/mood"
	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

// Pattern is one keyword routing rule. Patterns are evaluated in order and
// the first match wins.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// CompilePattern builds a case-insensitive keyword pattern.
func CompilePattern(name, expr string) (Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Name: name, re: re}, nil
}

// MustPattern is CompilePattern for the static default tables.
func MustPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile("(?i)" + expr)}
}

// DefaultPatterns returns the built-in keyword tier.
func DefaultPatterns() []Pattern {
	return []Pattern{
		MustPattern("dream", `dream`),
		MustPattern("analyze", `analy[sz]e`),
		MustPattern("reflect", `reflect`),
		MustPattern("paint", `paint`),
		MustPattern("story", `\bstory\b|\btale\b`),
	}
}

// Classifier derives a routing key from a raw message. Precedence is fixed:
// explicit override, persona mention, keyword pattern, inferred mood, none.
// Explicit mention always beats inferred mood so callers keep a
// deterministic escape hatch.
type Classifier struct {
	personas personamodel.Store
	patterns []Pattern
}

// NewClassifier builds a classifier over the given roster and keyword tier.
func NewClassifier(personas personamodel.Store, patterns []Pattern) *Classifier {
	return &Classifier{personas: personas, patterns: patterns}
}

// Classify produces the routing key for one request.
func (c *Classifier) Classify(message string, _ sessionmodel.Context, override string) dispatchmodel.RoutingKey {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return dispatchmodel.ExplicitKey(trimmed)
	}

	if id, ok := c.mentionedPersona(message); ok {
		return dispatchmodel.ExplicitKey(id)
	}

	for _, p := range c.patterns {
		if p.re.MatchString(message) {
			return dispatchmodel.KeywordKey(p.Name)
		}
	}

	if decision := mood.Detect(message); decision.Score > 0 && decision.Mood != mood.Neutral {
		return dispatchmodel.EmotionKey(string(decision.Mood))
	}

	return dispatchmodel.NoneKey()
}

// mentionedPersona scans for a persona name or id as a case-insensitive
// substring, in registration order.
func (c *Classifier) mentionedPersona(message string) (string, bool) {
	normalized := strings.ToLower(message)
	if strings.TrimSpace(normalized) == "" {
		return "", false
	}

	for _, p := range c.personas.List() {
		if name := strings.ToLower(p.Name); name != "" && strings.Contains(normalized, name) {
			return p.ID, true
		}
		if strings.Contains(normalized, strings.ToLower(p.ID)) {
			return p.ID, true
		}
	}
	return "", false
}
