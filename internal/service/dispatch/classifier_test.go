package dispatch

import (
	"testing"

	dispatchmodel "github.com/hearthlabs/hearth/backend/internal/model/dispatch"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	sessionmodel "github.com/hearthlabs/hearth/backend/internal/model/session"
)

func newTestRegistry() *personamodel.Registry {
	return personamodel.NewRegistry(personamodel.Seed())
}

func newTestClassifier() *Classifier {
	return NewClassifier(newTestRegistry(), DefaultPatterns())
}

func TestClassifyOverrideAlwaysWins(t *testing.T) {
	c := newTestClassifier()

	key := c.Classify("talk to the dreamer", sessionmodel.Context{}, "solene")
	if key.Kind != dispatchmodel.KindExplicit {
		t.Fatalf("expected explicit key, got %s", key.Kind)
	}
	if key.Value != "solene" {
		t.Fatalf("expected override to win over mention, got %s", key.Value)
	}
}

func TestClassifyOverrideUnknownStillExplicit(t *testing.T) {
	c := newTestClassifier()

	// Resolution of unknown ids is the router's job, not the classifier's.
	key := c.Classify("hello", sessionmodel.Context{}, "nobody")
	if key.Kind != dispatchmodel.KindExplicit || key.Value != "nobody" {
		t.Fatalf("expected explicit(nobody), got %s:%s", key.Kind, key.Value)
	}
}

func TestClassifyMentionByName(t *testing.T) {
	c := newTestClassifier()

	key := c.Classify("Ask the Dreamer to tell a story", sessionmodel.Context{}, "")
	if key.Kind != dispatchmodel.KindExplicit {
		t.Fatalf("expected explicit key, got %s", key.Kind)
	}
	if key.Value != "the-dreamer" {
		t.Fatalf("expected the-dreamer, got %s", key.Value)
	}
}

func TestClassifyMentionBeatsKeyword(t *testing.T) {
	c := newTestClassifier()

	// "paint" is a keyword, but the mention of Solene takes precedence.
	key := c.Classify("solene, would you paint this for me?", sessionmodel.Context{}, "")
	if key.Kind != dispatchmodel.KindExplicit || key.Value != "solene" {
		t.Fatalf("expected explicit(solene), got %s:%s", key.Kind, key.Value)
	}
}

func TestClassifyKeywordPattern(t *testing.T) {
	c := newTestClassifier()

	key := c.Classify("can you analyse this log for me", sessionmodel.Context{}, "")
	if key.Kind != dispatchmodel.KindKeyword {
		t.Fatalf("expected keyword key, got %s", key.Kind)
	}
	if key.Value != "analyze" {
		t.Fatalf("expected analyze pattern, got %s", key.Value)
	}
}

func TestClassifyEmotionFallback(t *testing.T) {
	c := newTestClassifier()

	key := c.Classify("I'm feeling very anxious today", sessionmodel.Context{}, "")
	if key.Kind != dispatchmodel.KindEmotion {
		t.Fatalf("expected emotion key, got %s", key.Kind)
	}
	if key.Value != "anxious" {
		t.Fatalf("expected anxious label, got %s", key.Value)
	}
}

func TestClassifyNoneWhenNothingMatches(t *testing.T) {
	c := newTestClassifier()

	key := c.Classify("hello", sessionmodel.Context{}, "")
	if key.Kind != dispatchmodel.KindNone {
		t.Fatalf("expected none key, got %s:%s", key.Kind, key.Value)
	}
}
