package services

import (
	"context"
	"fmt"

	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/store"
)

// DefaultNearbyLimit caps proximity query results.
const DefaultNearbyLimit = 50

// DefaultNearbyRadiusMeters is used when a nearby request omits the radius.
const DefaultNearbyRadiusMeters = 5000.0

// sampleEmotionMap seeds the global map visualization while the store holds
// no public memories yet.
var sampleEmotionMap = []*model.EmotionMapPoint{
	{Emotion: "nostalgia", Count: 8, Lat: 35.6597, Lng: 139.7006},
	{Emotion: "peace", Count: 12, Lat: 51.5074, Lng: -0.1278},
	{Emotion: "love", Count: 15, Lat: 40.7829, Lng: -73.9654},
	{Emotion: "joy", Count: 6, Lat: -33.8568, Lng: 151.2153},
	{Emotion: "warmth", Count: 9, Lat: 48.8566, Lng: 2.2936},
	{Emotion: "contemplative", Count: 4, Lat: 34.0522, Lng: -118.2437},
	{Emotion: "grateful", Count: 7, Lat: 55.7558, Lng: 37.6176},
	{Emotion: "calm", Count: 5, Lat: 19.4326, Lng: -99.1332},
	{Emotion: "hopeful", Count: 11, Lat: -23.5505, Lng: -46.6333},
	{Emotion: "excitement", Count: 13, Lat: 1.3521, Lng: 103.8198},
}

// MemoryService orchestrates memory-related use cases.
type MemoryService struct {
	store    store.Store
	analyzer EmotionAnalyzer

	nearbyDefaultRadiusMeters float64
	nearbyLimit               int
}

func NewMemoryService(s store.Store, analyzer EmotionAnalyzer) *MemoryService {
	return &MemoryService{
		store:                     s,
		analyzer:                  analyzer,
		nearbyDefaultRadiusMeters: DefaultNearbyRadiusMeters,
		nearbyLimit:               DefaultNearbyLimit,
	}
}

// SetNearbyDefaults overrides the nearby radius/limit defaults from config.
func (s *MemoryService) SetNearbyDefaults(radiusMeters float64, limit int) {
	if radiusMeters > 0 {
		s.nearbyDefaultRadiusMeters = radiusMeters
	}
	if limit > 0 {
		s.nearbyLimit = limit
	}
}

// CreateMemory persists a new memory. When the caller supplies no emotion the
// classification pipeline runs over the best available text (content, then
// description, then title); classification cannot fail, so the stored emotion
// is never empty. Confidence is clamped to [0,1].
func (s *MemoryService) CreateMemory(ctx context.Context, m *model.Memory) (*model.Memory, error) {
	if err := validateCoordinates(m.Latitude, m.Longitude); err != nil {
		return nil, err
	}
	if m.AccessType == "" {
		m.AccessType = model.AccessPublic
	}
	if !model.ValidAccessType(m.AccessType) {
		return nil, fmt.Errorf("unknown access type %q: %w", m.AccessType, model.ErrValidation)
	}
	if m.Duration < 0 {
		return nil, fmt.Errorf("duration must be non-negative: %w", model.ErrValidation)
	}

	if m.Emotion == "" {
		analysis := s.analyzer.AnalyzeEmotion(ctx, classifiableText(m))
		m.Emotion = analysis.PrimaryEmotion
		m.EmotionConfidence = analysis.Confidence
	}
	m.EmotionConfidence = clamp01(m.EmotionConfidence)
	m.IsActive = true

	return s.store.Memories().Create(ctx, m)
}

func classifiableText(m *model.Memory) string {
	if m.Content != nil && *m.Content != "" {
		return *m.Content
	}
	if m.Description != nil && *m.Description != "" {
		return *m.Description
	}
	return m.Title
}

func (s *MemoryService) GetMemory(ctx context.Context, memoryID string) (*model.Memory, error) {
	return s.store.Memories().GetByID(ctx, memoryID)
}

func (s *MemoryService) ListUserMemories(ctx context.Context, userID string) ([]*model.Memory, error) {
	return s.store.Memories().ListByUser(ctx, userID)
}

// UpdateMemory changes the mutable subset of a memory's fields.
func (s *MemoryService) UpdateMemory(ctx context.Context, memoryID, userID string, upd model.MemoryUpdate) (*model.Memory, error) {
	if upd.Emotion != nil && *upd.Emotion == "" {
		return nil, fmt.Errorf("emotion must not be empty: %w", model.ErrValidation)
	}
	if upd.AccessType != nil && !model.ValidAccessType(*upd.AccessType) {
		return nil, fmt.Errorf("unknown access type %q: %w", *upd.AccessType, model.ErrValidation)
	}
	return s.store.Memories().Update(ctx, memoryID, userID, upd)
}

func (s *MemoryService) DeleteMemory(ctx context.Context, memoryID, userID string) error {
	return s.store.Memories().Delete(ctx, memoryID, userID)
}

// Nearby returns public memories within radiusMeters of the query point,
// nearest first. A non-positive radius falls back to the configured default.
func (s *MemoryService) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]*model.NearbyMemory, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = s.nearbyDefaultRadiusMeters
	}
	out, err := s.store.Memories().Nearby(ctx, lat, lng, radiusMeters/1000, s.nearbyLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*model.NearbyMemory{}
	}
	return out, nil
}

// EmotionMap returns aggregated public-memory clusters; while the store is
// empty it serves the curated sample set so the map is never blank.
func (s *MemoryService) EmotionMap(ctx context.Context) ([]*model.EmotionMapPoint, error) {
	points, err := s.store.Memories().EmotionMap(ctx)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return sampleEmotionMap, nil
	}
	return points, nil
}

// Unlock records that a user viewed/responded to a memory and bumps its
// unlock counter. Private memories and self-unlocks are rejected.
func (s *MemoryService) Unlock(ctx context.Context, u *model.MemoryUnlock) (*model.MemoryUnlock, error) {
	mem, err := s.store.Memories().GetByID(ctx, u.MemoryID)
	if err != nil {
		return nil, err
	}
	if mem.AccessType == model.AccessPrivate {
		return nil, fmt.Errorf("memory is private: %w", model.ErrValidation)
	}
	if mem.UserID == u.UnlockedBy {
		return nil, fmt.Errorf("cannot unlock own memory: %w", model.ErrValidation)
	}
	return s.store.Unlocks().Create(ctx, u)
}

func (s *MemoryService) ListUnlocks(ctx context.Context, memoryID string) ([]*model.MemoryUnlock, error) {
	return s.store.Unlocks().ListByMemory(ctx, memoryID)
}

func (s *MemoryService) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	return s.store.Memories().Stats(ctx, userID)
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %f out of range: %w", lat, model.ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %f out of range: %w", lng, model.ErrValidation)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
