package api

import (
	"github.com/gorilla/mux"

	"github.com/echo-social/echo-server/internal/api/recovery"
	"github.com/echo-social/echo-server/internal/services"
)

// NewRouter wires all API routes to handlers.
func NewRouter(users *services.UserService, memories *services.MemoryService, emotions *services.EmotionService) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	userHandler := NewUserHandler(users, memories)
	memoryHandler := NewMemoryHandler(memories)
	emotionHandler := NewEmotionHandler(emotions)
	healthHandler := NewHealthHandler()

	// Health
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Emotion analysis
	router.HandleFunc("/api/ai/analyze-emotion", emotionHandler.AnalyzeEmotion).Methods("POST")
	router.HandleFunc("/api/ai/analyze-voice", emotionHandler.AnalyzeVoice).Methods("POST")

	// Discovery; the query-param form predates the path form and is kept for
	// older clients. Registered before {memoryId} so "nearby" never matches it.
	router.HandleFunc("/api/memories/nearby", memoryHandler.NearbyQuery).Methods("GET")
	router.HandleFunc("/api/memories/nearby/{lat}/{lng}", memoryHandler.Nearby).Methods("GET")
	router.HandleFunc("/api/emotions/map", memoryHandler.EmotionMap).Methods("GET")

	// Memories
	router.HandleFunc("/api/memories", memoryHandler.CreateMemory).Methods("POST")
	router.HandleFunc("/api/memories/{memoryId:[0-9a-fA-F-]{36}}", memoryHandler.GetMemory).Methods("GET")
	router.HandleFunc("/api/memories/{memoryId:[0-9a-fA-F-]{36}}", memoryHandler.UpdateMemory).Methods("PUT")
	router.HandleFunc("/api/memories/{memoryId:[0-9a-fA-F-]{36}}", memoryHandler.DeleteMemory).Methods("DELETE")
	router.HandleFunc("/api/memories/{memoryId:[0-9a-fA-F-]{36}}/unlock", memoryHandler.Unlock).Methods("POST")
	router.HandleFunc("/api/memories/{memoryId:[0-9a-fA-F-]{36}}/unlocks", memoryHandler.ListUnlocks).Methods("GET")

	// Users
	router.HandleFunc("/api/users", userHandler.CreateUser).Methods("POST")
	router.HandleFunc("/api/users/{userId}", userHandler.GetUser).Methods("GET")
	router.HandleFunc("/api/users/{userId}", userHandler.UpdateUser).Methods("PUT")
	router.HandleFunc("/api/users/{userId}/memories", userHandler.ListMemories).Methods("GET")
	router.HandleFunc("/api/users/{userId}/stats", userHandler.GetStats).Methods("GET")

	return router
}
