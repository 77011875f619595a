package api

import (
	"encoding/json"
	"net/http"

	"github.com/echo-social/echo-server/internal/api/respond"
	"github.com/echo-social/echo-server/internal/services"
)

type EmotionHandler struct {
	svc *services.EmotionService
}

func NewEmotionHandler(svc *services.EmotionService) *EmotionHandler {
	return &EmotionHandler{svc: svc}
}

// AnalyzeEmotion POST /api/ai/analyze-emotion
func (h *EmotionHandler) AnalyzeEmotion(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text    string `json:"text"`
		Context string `json:"context,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	analysis, err := h.svc.Analyze(r.Context(), in.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"analysis": analysis})
}

// AnalyzeVoice POST /api/ai/analyze-voice
func (h *EmotionHandler) AnalyzeVoice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Transcript string `json:"transcript"`
		Context    string `json:"context,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	analysis, err := h.svc.AnalyzeVoice(r.Context(), in.Transcript, in.Context)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"analysis": analysis})
}
