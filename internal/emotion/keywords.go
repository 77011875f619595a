package emotion

import (
	"math"
	"strings"
)

// category pairs an emotion label with its trigger keywords. Categories are
// evaluated in slice order: more severe/negative emotions come first so that
// serious content wins over incidental positive words.
type category struct {
	label    string
	keywords []string
}

// categories is the priority-ordered fallback table. Matching is
// case-insensitive substring containment against the lower-cased input.
var categories = []category{
	{"despair", []string{"die", "death", "suicide", "kill", "end", "pain", "hurt", "depressed", "awful"}},
	{"anger", []string{"hate", "angry", "mad", "furious", "rage", "annoyed", "frustrated"}},
	{"fear", []string{"scared", "afraid", "terrified", "anxious", "worried", "nervous"}},
	{"sadness", []string{"sad", "crying", "tears", "lonely", "empty", "broken", "devastated"}},
	{"joy", []string{"happy", "excited", "amazing", "wonderful", "great", "fantastic", "delighted"}},
	{"love", []string{"love", "adore", "cherish", "care", "affection", "heart", "romance"}},
	{"peace", []string{"calm", "peaceful", "quiet", "serene", "tranquil", "relaxed", "zen"}},
	{"warmth", []string{"warm", "cozy", "comfort", "embrace", "gentle", "tender"}},
	{"grateful", []string{"thankful", "grateful", "appreciate", "blessed", "lucky"}},
	{"hopeful", []string{"hope", "future", "dream", "wish", "aspire", "optimistic"}},
	{"excitement", []string{"excited", "thrilled", "eager", "energetic", "pumped"}},
	{"nostalgia", []string{"remember", "back then", "used to", "childhood", "old", "past"}},
	{"contemplative", []string{"think", "wonder", "ponder", "reflect", "consider", "meditate"}},
}

// defaultEmotion is returned when no category keyword matches.
const defaultEmotion = "contemplative"

// intensityBoosts lists intensifier words per emotion. Only four categories
// carry specific lists; everything else uses genericBoosts.
var intensityBoosts = map[string][]string{
	"despair": {"really", "so", "very", "extremely", "totally", "completely"},
	"anger":   {"really", "so", "very", "extremely", "totally", "fucking"},
	"joy":     {"really", "so", "very", "extremely", "amazing", "incredible"},
	"love":    {"really", "so", "very", "deeply", "truly", "completely"},
}

var genericBoosts = []string{"really", "so", "very"}

// Classify maps free text to an emotion label and an intensity in [0,1].
// It is pure and deterministic: it always returns a label from the known
// category set (defaultEmotion when nothing matches) and never fails.
func Classify(text string) (string, float64) {
	emotion := extractEmotion(text)
	return emotion, calculateIntensity(text, emotion)
}

// KnownEmotions returns the fallback vocabulary in priority order.
func KnownEmotions() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.label
	}
	return out
}

func extractEmotion(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.label
			}
		}
	}
	return defaultEmotion
}

// calculateIntensity starts from a 0.5 base, adds 0.2 per matched intensifier
// word and up to 0.3 proportional to text length, capped at 1.0.
func calculateIntensity(text, emotion string) float64 {
	lower := strings.ToLower(text)
	intensity := 0.5

	boosts, ok := intensityBoosts[emotion]
	if !ok {
		boosts = genericBoosts
	}
	for _, b := range boosts {
		if strings.Contains(lower, b) {
			intensity += 0.2
		}
	}
	intensity += math.Min(float64(len(text))/100, 0.3)

	return math.Min(intensity, 1.0)
}

// clamp01 bounds v to the [0,1] interval.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
