package emotion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_AngerWithIntensifiers(t *testing.T) {
	emo, intensity := Classify("I am so angry and furious about this")
	assert.Equal(t, "anger", emo)
	assert.GreaterOrEqual(t, intensity, 0.7)
	assert.LessOrEqual(t, intensity, 1.0)
}

func TestClassify_Nostalgia(t *testing.T) {
	emo, _ := Classify("Walking through the park reminds me of my childhood")
	assert.Equal(t, "nostalgia", emo)
}

func TestClassify_DefaultsToContemplative(t *testing.T) {
	emo, intensity := Classify("qwxz blorp")
	assert.Equal(t, "contemplative", emo)
	assert.GreaterOrEqual(t, intensity, 0.5)
}

func TestClassify_NegativeEmotionsWinOverPositive(t *testing.T) {
	// "lonely" (sadness) outranks "happy" (joy) in the priority order.
	emo, _ := Classify("happy on the outside, lonely inside")
	assert.Equal(t, "sadness", emo)

	// despair outranks everything.
	emo, _ = Classify("so happy it hurt")
	assert.Equal(t, "despair", emo)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	emo, _ := Classify("I HATE this")
	assert.Equal(t, "anger", emo)
}

func TestClassify_IntensityAlwaysInRange(t *testing.T) {
	inputs := []string{
		"",
		"calm",
		"really so very extremely totally completely the end of all pain",
		strings.Repeat("I love this so very deeply and truly and completely. ", 50),
	}
	known := map[string]bool{}
	for _, k := range KnownEmotions() {
		known[k] = true
	}
	for _, in := range inputs {
		emo, intensity := Classify(in)
		assert.True(t, known[emo], "emotion %q not in known set for input %q", emo, in)
		assert.GreaterOrEqual(t, intensity, 0.0)
		assert.LessOrEqual(t, intensity, 1.0)
	}
}

func TestKnownEmotions_PriorityOrder(t *testing.T) {
	emotions := KnownEmotions()
	assert.Equal(t, "despair", emotions[0])
	assert.Equal(t, "contemplative", emotions[len(emotions)-1])
	assert.Len(t, emotions, 13)
}
