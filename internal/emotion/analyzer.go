package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/echo-social/echo-server/internal/model"
)

// fallbackConfidence is reported whenever the remote classifier could not be
// used and the keyword table produced the result.
const fallbackConfidence = 0.7

// Analyzer classifies text through a remote chat-completion endpoint and
// degrades to the keyword fallback on any failure. Its Analyze methods never
// return an error: the caller always receives a usable EmotionAnalysis.
type Analyzer struct {
	client *resty.Client
	url    string
	apiKey string
	model  string
	gate   *IntervalGate
	log    zerolog.Logger
}

// NewAnalyzer builds an analyzer. An empty apiKey disables remote calls
// entirely; classification then always comes from the keyword fallback.
func NewAnalyzer(url, apiKey, modelName string, minInterval, timeout time.Duration, log zerolog.Logger) *Analyzer {
	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Analyzer{
		client: c,
		url:    url,
		apiKey: apiKey,
		model:  modelName,
		gate:   NewIntervalGate(minInterval),
		log:    log,
	}
}

// chat-completion request/response wire shapes.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You are an expert emotion analyst. Analyze the emotional content of text and respond with a JSON object containing:
{
  "primaryEmotion": "dominant emotion (nostalgia, joy, peace, love, warmth, contemplative, grateful, calm, hopeful, excitement, melancholy, wonder, etc.)",
  "confidence": confidence_score_0_to_1,
  "emotions": [
    {"emotion": "emotion_name", "intensity": intensity_0_to_1}
  ],
  "summary": "brief emotional summary in 1-2 sentences"
}

Focus on nuanced, specific emotions beyond basic happy/sad. Consider cultural context and subtle emotional undertones.`

// outcome is the tagged result of a remote classification attempt. Anything
// other than outcomeOK is reduced to the keyword fallback in one place.
type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeParseFailure
	outcomeTransportFailure
)

type outcome struct {
	kind     outcomeKind
	analysis model.EmotionAnalysis
	err      error
}

// AnalyzeEmotion classifies text. It waits on the shared rate-limit gate,
// makes a single remote attempt and reduces any failure to the keyword
// fallback. No retries.
func (a *Analyzer) AnalyzeEmotion(ctx context.Context, text string) model.EmotionAnalysis {
	if a.apiKey == "" {
		// Fallback-only path: the gate timestamp is not touched.
		return a.reduce(outcome{kind: outcomeTransportFailure, err: fmt.Errorf("no API key configured")}, text)
	}

	if err := a.gate.Wait(ctx); err != nil {
		return a.reduce(outcome{kind: outcomeTransportFailure, err: err}, text)
	}

	return a.reduce(a.callRemote(ctx, text), text)
}

// AnalyzeVoiceTranscript classifies a voice transcript, optionally prefixed
// with caller-supplied context.
func (a *Analyzer) AnalyzeVoiceTranscript(ctx context.Context, transcript, context string) model.EmotionAnalysis {
	text := transcript
	if context != "" {
		text = fmt.Sprintf("Context: %s\n\nTranscript: %s", context, transcript)
	}
	return a.AnalyzeEmotion(ctx, text)
}

func (a *Analyzer) callRemote(ctx context.Context, text string) outcome {
	body := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Analyze the emotional content of this text: %q", text)},
		},
		Temperature: 0.3,
		MaxTokens:   300,
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(a.apiKey).
		SetBody(&body).
		Post(a.url)
	if err != nil {
		return outcome{kind: outcomeTransportFailure, err: fmt.Errorf("classifier request: %w", err)}
	}
	if resp.IsError() {
		return outcome{kind: outcomeTransportFailure, err: fmt.Errorf("classifier status %d", resp.StatusCode())}
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return outcome{kind: outcomeParseFailure, err: fmt.Errorf("decode response: %w", err)}
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return outcome{kind: outcomeParseFailure, err: fmt.Errorf("no content in response")}
	}

	// Confidence is a pointer so an absent field is distinguishable from a
	// literal 0; both primaryEmotion and confidence are required.
	var wire struct {
		PrimaryEmotion string               `json:"primaryEmotion"`
		Confidence     *float64             `json:"confidence"`
		Emotions       []model.EmotionScore `json:"emotions"`
		Summary        string               `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &wire); err != nil {
		return outcome{kind: outcomeParseFailure, err: fmt.Errorf("parse analysis: %w", err)}
	}
	if wire.PrimaryEmotion == "" {
		return outcome{kind: outcomeParseFailure, err: fmt.Errorf("missing primaryEmotion")}
	}
	if wire.Confidence == nil {
		return outcome{kind: outcomeParseFailure, err: fmt.Errorf("missing confidence")}
	}

	return outcome{kind: outcomeOK, analysis: model.EmotionAnalysis{
		PrimaryEmotion: wire.PrimaryEmotion,
		Confidence:     *wire.Confidence,
		Emotions:       wire.Emotions,
		Summary:        wire.Summary,
	}}
}

// reduce maps any non-OK outcome to the keyword fallback and clamps score
// ranges on accepted results.
func (a *Analyzer) reduce(o outcome, text string) model.EmotionAnalysis {
	if o.kind == outcomeOK {
		o.analysis.Confidence = clamp01(o.analysis.Confidence)
		for i := range o.analysis.Emotions {
			o.analysis.Emotions[i].Intensity = clamp01(o.analysis.Emotions[i].Intensity)
		}
		return o.analysis
	}

	a.log.Warn().Err(o.err).Msg("remote emotion analysis unavailable, using keyword fallback")

	emo, intensity := Classify(text)
	return model.EmotionAnalysis{
		PrimaryEmotion: emo,
		Confidence:     fallbackConfidence,
		Emotions:       []model.EmotionScore{{Emotion: emo, Intensity: intensity}},
		Summary:        fmt.Sprintf("Detected %s emotion through text analysis.", emo),
	}
}
