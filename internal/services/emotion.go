package services

import (
	"context"
	"fmt"

	"github.com/echo-social/echo-server/internal/model"
)

// EmotionAnalyzer classifies text. Implementations must always return a valid
// analysis; failures degrade internally to the keyword fallback.
type EmotionAnalyzer interface {
	AnalyzeEmotion(ctx context.Context, text string) model.EmotionAnalysis
	AnalyzeVoiceTranscript(ctx context.Context, transcript, context string) model.EmotionAnalysis
}

// EmotionService fronts the classification pipeline for the API layer.
type EmotionService struct {
	analyzer EmotionAnalyzer
}

func NewEmotionService(analyzer EmotionAnalyzer) *EmotionService {
	return &EmotionService{analyzer: analyzer}
}

// Analyze classifies free text. Only input validation can fail; the
// classification itself always produces a result.
func (s *EmotionService) Analyze(ctx context.Context, text string) (model.EmotionAnalysis, error) {
	if text == "" {
		return model.EmotionAnalysis{}, fmt.Errorf("text is required: %w", model.ErrValidation)
	}
	return s.analyzer.AnalyzeEmotion(ctx, text), nil
}

// AnalyzeVoice classifies a voice transcript with optional recording context.
func (s *EmotionService) AnalyzeVoice(ctx context.Context, transcript, recordingContext string) (model.EmotionAnalysis, error) {
	if transcript == "" {
		return model.EmotionAnalysis{}, fmt.Errorf("transcript is required: %w", model.ErrValidation)
	}
	return s.analyzer.AnalyzeVoiceTranscript(ctx, transcript, recordingContext), nil
}
