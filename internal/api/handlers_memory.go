package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/echo-social/echo-server/internal/api/respond"
	"github.com/echo-social/echo-server/internal/api/validate"
	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/services"
)

type MemoryHandler struct {
	svc *services.MemoryService
}

func NewMemoryHandler(svc *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

// CreateMemory POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID            string  `json:"userId"`
		Title             string  `json:"title"`
		Description       *string `json:"description,omitempty"`
		Content           *string `json:"content,omitempty"`
		AudioData         *string `json:"audioData,omitempty"`
		AudioURL          *string `json:"audioUrl,omitempty"`
		Emotion           string  `json:"emotion,omitempty"`
		EmotionConfidence float64 `json:"emotionConfidence,omitempty"`
		Latitude          float64 `json:"latitude"`
		Longitude         float64 `json:"longitude"`
		LocationName      *string `json:"locationName,omitempty"`
		Duration          int     `json:"duration,omitempty"`
		AccessType        string  `json:"accessType,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateMemory(in.UserID, in.Title, in.Description, in.Latitude, in.Longitude); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	m := &model.Memory{
		UserID:            in.UserID,
		Title:             in.Title,
		Description:       in.Description,
		Content:           in.Content,
		AudioData:         in.AudioData,
		AudioURL:          in.AudioURL,
		Emotion:           in.Emotion,
		EmotionConfidence: in.EmotionConfidence,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		LocationName:      in.LocationName,
		Duration:          in.Duration,
		AccessType:        in.AccessType,
	}
	out, err := h.svc.CreateMemory(r.Context(), m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{"memory": out})
}

// GetMemory GET /api/memories/{memoryId}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetMemory(r.Context(), mux.Vars(r)["memoryId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memory": out})
}

// UpdateMemory PUT /api/memories/{memoryId}
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string  `json:"userId"`
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
		Emotion     *string `json:"emotion,omitempty"`
		AccessType  *string `json:"accessType,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if in.UserID == "" {
		respond.WriteBadRequest(w, "userId is required")
		return
	}
	upd := model.MemoryUpdate{Title: in.Title, Description: in.Description, Emotion: in.Emotion, AccessType: in.AccessType}
	out, err := h.svc.UpdateMemory(r.Context(), mux.Vars(r)["memoryId"], in.UserID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memory": out})
}

// DeleteMemory DELETE /api/memories/{memoryId}?userId=...
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respond.WriteBadRequest(w, "userId is required")
		return
	}
	if err := h.svc.DeleteMemory(r.Context(), mux.Vars(r)["memoryId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Nearby GET /api/memories/nearby/{lat}/{lng}?radius=<meters>
func (h *MemoryHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lat, err := strconv.ParseFloat(vars["lat"], 64)
	if err != nil {
		respond.WriteBadRequest(w, "invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(vars["lng"], 64)
	if err != nil {
		respond.WriteBadRequest(w, "invalid longitude")
		return
	}
	h.nearby(w, r, lat, lng)
}

// NearbyQuery GET /api/memories/nearby?lat=..&lng=..&radius=<meters>
func (h *MemoryHandler) NearbyQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		respond.WriteBadRequest(w, "invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		respond.WriteBadRequest(w, "invalid longitude")
		return
	}
	h.nearby(w, r, lat, lng)
}

func (h *MemoryHandler) nearby(w http.ResponseWriter, r *http.Request, lat, lng float64) {
	var radiusMeters float64
	if s := r.URL.Query().Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			respond.WriteBadRequest(w, "invalid radius")
			return
		}
		radiusMeters = v
	}
	out, err := h.svc.Nearby(r.Context(), lat, lng, radiusMeters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": out, "count": len(out)})
}

// EmotionMap GET /api/emotions/map
func (h *MemoryHandler) EmotionMap(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.EmotionMap(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": points, "count": len(points)})
}

// Unlock POST /api/memories/{memoryId}/unlock
func (h *MemoryHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UnlockedBy   string  `json:"unlockedBy"`
		EchoContent  *string `json:"echoContent,omitempty"`
		EchoAudioURL *string `json:"echoAudioUrl,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if in.UnlockedBy == "" {
		respond.WriteBadRequest(w, "unlockedBy is required")
		return
	}
	u := &model.MemoryUnlock{
		MemoryID:     mux.Vars(r)["memoryId"],
		UnlockedBy:   in.UnlockedBy,
		EchoContent:  in.EchoContent,
		EchoAudioURL: in.EchoAudioURL,
	}
	out, err := h.svc.Unlock(r.Context(), u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{"unlock": out})
}

// ListUnlocks GET /api/memories/{memoryId}/unlocks
func (h *MemoryHandler) ListUnlocks(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListUnlocks(r.Context(), mux.Vars(r)["memoryId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.MemoryUnlock{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"unlocks": out, "count": len(out)})
}
