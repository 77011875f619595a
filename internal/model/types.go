package model

import "time"

// Access types control who can discover and unlock a memory.
const (
	AccessPublic       = "public"
	AccessFriends      = "friends"
	AccessEmotionMatch = "emotion_match"
	AccessPrivate      = "private"
)

// ValidAccessType reports whether s is one of the known access types.
func ValidAccessType(s string) bool {
	switch s {
	case AccessPublic, AccessFriends, AccessEmotionMatch, AccessPrivate:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Avatar       *string   `json:"avatar,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Memory is a geotagged, emotion-classified recording owned by one user.
// Only title, description, emotion and access type may change after creation;
// the unlock counter is incremented through unlocks.
type Memory struct {
	MemoryID          string    `json:"memoryId"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Content           *string   `json:"content,omitempty"`
	AudioData         *string   `json:"audioData,omitempty"`
	AudioURL          *string   `json:"audioUrl,omitempty"`
	Emotion           string    `json:"emotion"`
	EmotionConfidence float64   `json:"emotionConfidence"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	LocationName      *string   `json:"locationName,omitempty"`
	Duration          int       `json:"duration"`
	AccessType        string    `json:"accessType"`
	IsActive          bool      `json:"isActive"`
	UnlockCount       int       `json:"unlockCount"`
	CreationTime      time.Time `json:"creationTime"`
}

// NearbyMemory is a memory returned from a proximity query together with its
// great-circle distance from the query point.
type NearbyMemory struct {
	Memory
	DistanceKm float64 `json:"distanceKm"`
}

// MemoryUnlock records that a user viewed/responded to another user's memory.
// Unlock rows are never mutated or deleted.
type MemoryUnlock struct {
	UnlockID     string    `json:"unlockId"`
	MemoryID     string    `json:"memoryId"`
	UnlockedBy   string    `json:"unlockedBy"`
	EchoContent  *string   `json:"echoContent,omitempty"`
	EchoAudioURL *string   `json:"echoAudioUrl,omitempty"`
	UnlockedAt   time.Time `json:"unlockedAt"`
}

// EmotionScore is a single (emotion, intensity) pair in an analysis.
type EmotionScore struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
}

// EmotionAnalysis is the result of classifying a piece of text. It is produced
// once per memory-creation request and copied into the Memory; it is never
// persisted on its own or recomputed.
type EmotionAnalysis struct {
	PrimaryEmotion string         `json:"primaryEmotion"`
	Confidence     float64        `json:"confidence"`
	Emotions       []EmotionScore `json:"emotions"`
	Summary        string         `json:"summary"`
}

// EmotionMapPoint is an aggregated cluster of public memories for the global
// emotion map visualization.
type EmotionMapPoint struct {
	Emotion string  `json:"emotion"`
	Count   int     `json:"count"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// UserUpdate carries the editable profile fields. Nil fields are left
// unchanged.
type UserUpdate struct {
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// MemoryUpdate carries the mutable fields of a memory. Nil fields are left
// unchanged.
type MemoryUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Emotion     *string `json:"emotion,omitempty"`
	AccessType  *string `json:"accessType,omitempty"`
}

// UserStats summarizes a user's activity.
type UserStats struct {
	MemoryCount     int    `json:"memoryCount"`
	UnlocksReceived int    `json:"unlocksReceived"`
	DominantEmotion string `json:"dominantEmotion"`
}
