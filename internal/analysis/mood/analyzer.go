package mood

import (
	"math"
	"strings"
)

// Label is a detected mood category.
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Anxious Label = "anxious"
	Excited Label = "excited"
	Calm    Label = "calm"
	Comfort Label = "comfort"
)

// Decision is a mood detection result with a recommended intensity.
type Decision struct {
	Mood  Label
	Scale float32
	Score int
}

var keywordBuckets = map[Label][]string{
	Happy: {
		"happy", "glad", "great", "wonderful", "love", "lovely", "thanks", "thank you",
		"delighted", "joy", "good news", "smiling", "haha", "lol", "awesome", "amazing",
	},
	Sad: {
		"sad", "unhappy", "lonely", "miss", "cry", "crying", "hurt", "heartbroken",
		"depressed", "down", "grief", "hopeless", "empty", "tired of everything", "lost",
	},
	Angry: {
		"angry", "furious", "mad", "annoyed", "hate", "rage", "fed up", "pissed",
		"sick of", "unfair", "frustrated", "outraged",
	},
	Anxious: {
		"anxious", "anxiety", "nervous", "worried", "worry", "scared", "afraid",
		"panic", "overwhelmed", "stressed", "can't sleep", "on edge", "dread",
	},
	Excited: {
		"excited", "can't wait", "thrilled", "incredible", "unbelievable", "wow",
		"finally", "so cool", "pumped", "hyped", "let's go",
	},
	Calm: {
		"calm", "peaceful", "quiet", "relaxed", "gentle", "slow down", "breathe",
		"settled", "at ease", "still",
	},
}

var punctuationBoost = map[Label]int{
	Happy:   2,
	Excited: 3,
}

// symbolVocabulary is the fixed imagery set surfaced in envelope signals.
var symbolVocabulary = []string{
	"dream", "mirror", "ocean", "fire", "moon", "garden", "storm", "door", "river",
}

// Detect scores a single utterance against the keyword buckets.
func Detect(text string) Decision {
	return scoreText(text)
}

// Analyze infers the mood a reply should carry given the user utterance and
// the generated reply. A reply without clear sentiment inherits a coerced
// mood from the user so the journal records empathetic tone, not silence.
func Analyze(userUtterance, replyUtterance string) Decision {
	userScore := scoreText(userUtterance)
	replyScore := scoreText(replyUtterance)

	final := replyScore
	if final.Score == 0 && userScore.Score > 0 {
		final = coerceFromUser(userScore)
	}

	if final.Score == 0 {
		return Decision{Mood: Neutral, Scale: 3, Score: 0}
	}

	scale := 2 + float32(final.Score)/4
	if final.Mood == Excited {
		scale += 1
	}
	if final.Mood == Comfort || final.Mood == Calm {
		scale = float32(math.Min(3.5, float64(scale)))
	}

	if scale < 1 {
		scale = 1
	}
	if scale > 5 {
		scale = 5
	}

	return Decision{Mood: final.Mood, Scale: scale, Score: final.Score}
}

// Symbols reports which imagery words from the fixed vocabulary appear in text.
func Symbols(text string) []string {
	normalized := strings.ToLower(text)
	var found []string
	for _, sym := range symbolVocabulary {
		if strings.Contains(normalized, sym) {
			found = append(found, sym)
		}
	}
	return found
}

func scoreText(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Mood: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 {
		scores[Excited] += exclamations * punctuationBoost[Excited]
		if exclamations == 1 {
			scores[Happy] += punctuationBoost[Happy]
		}
	}

	bestLabel := Neutral
	bestScore := 0
	for label, s := range scores {
		if s > bestScore || (s == bestScore && s > 0 && label < bestLabel) {
			bestScore = s
			bestLabel = label
		}
	}

	if bestScore == 0 {
		return Decision{Mood: Neutral}
	}

	return Decision{Mood: bestLabel, Score: bestScore}
}

// coerceFromUser maps a user mood onto the tone the reply should take.
func coerceFromUser(user Decision) Decision {
	switch user.Mood {
	case Sad, Anxious:
		return Decision{Mood: Comfort, Score: user.Score}
	case Angry:
		return Decision{Mood: Calm, Score: user.Score}
	case Excited:
		return Decision{Mood: Excited, Score: user.Score}
	case Happy:
		return Decision{Mood: Happy, Score: user.Score}
	default:
		return user
	}
}
