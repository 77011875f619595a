package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/store"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	users    map[string]*model.User
	memories map[string]*model.Memory
	unlocks  map[string][]*model.MemoryUnlock
	mapRows  []*model.EmotionMapPoint

	nearbyCalls []nearbyCall
}

type nearbyCall struct {
	lat, lng, radiusKm float64
	limit              int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*model.User),
		memories: make(map[string]*model.Memory),
		unlocks:  make(map[string][]*model.MemoryUnlock),
	}
}

func (f *fakeStore) Users() store.Users       { return (*fakeUsers)(f) }
func (f *fakeStore) Memories() store.Memories { return (*fakeMemories)(f) }
func (f *fakeStore) Unlocks() store.Unlocks   { return (*fakeUnlocks)(f) }

type fakeUsers fakeStore

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	cp := *u
	cp.UserID = "user-" + u.Username
	cp.CreationTime = time.Now()
	f.users[cp.UserID] = &cp
	return &cp, nil
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, userID string, upd model.UserUpdate) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if upd.Avatar != nil {
		u.Avatar = upd.Avatar
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	return u, nil
}

type fakeMemories fakeStore

func (f *fakeMemories) Create(_ context.Context, m *model.Memory) (*model.Memory, error) {
	cp := *m
	cp.MemoryID = "mem-" + m.Title
	cp.IsActive = true
	cp.CreationTime = time.Now()
	f.memories[cp.MemoryID] = &cp
	return &cp, nil
}

func (f *fakeMemories) GetByID(_ context.Context, memoryID string) (*model.Memory, error) {
	m, ok := f.memories[memoryID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemories) ListByUser(_ context.Context, userID string) ([]*model.Memory, error) {
	var out []*model.Memory
	for _, m := range f.memories {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemories) Nearby(_ context.Context, lat, lng, radiusKm float64, limit int) ([]*model.NearbyMemory, error) {
	f.nearbyCalls = append(f.nearbyCalls, nearbyCall{lat: lat, lng: lng, radiusKm: radiusKm, limit: limit})
	return nil, nil
}

func (f *fakeMemories) Update(_ context.Context, memoryID, userID string, upd model.MemoryUpdate) (*model.Memory, error) {
	m, ok := f.memories[memoryID]
	if !ok || m.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Description != nil {
		m.Description = upd.Description
	}
	if upd.Emotion != nil {
		m.Emotion = *upd.Emotion
	}
	if upd.AccessType != nil {
		m.AccessType = *upd.AccessType
	}
	return m, nil
}

func (f *fakeMemories) Delete(_ context.Context, memoryID, userID string) error {
	m, ok := f.memories[memoryID]
	if !ok || m.UserID != userID {
		return model.ErrNotFound
	}
	delete(f.memories, memoryID)
	return nil
}

func (f *fakeMemories) EmotionMap(_ context.Context) ([]*model.EmotionMapPoint, error) {
	return f.mapRows, nil
}

func (f *fakeMemories) Stats(_ context.Context, userID string) (*model.UserStats, error) {
	stats := &model.UserStats{}
	for _, m := range f.memories {
		if m.UserID == userID {
			stats.MemoryCount++
			stats.UnlocksReceived += m.UnlockCount
			stats.DominantEmotion = m.Emotion
		}
	}
	return stats, nil
}

type fakeUnlocks fakeStore

func (f *fakeUnlocks) Create(_ context.Context, u *model.MemoryUnlock) (*model.MemoryUnlock, error) {
	m, ok := f.memories[u.MemoryID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	cp.UnlockID = "unlock-1"
	cp.UnlockedAt = time.Now()
	f.unlocks[u.MemoryID] = append(f.unlocks[u.MemoryID], &cp)
	m.UnlockCount++
	return &cp, nil
}

func (f *fakeUnlocks) ListByMemory(_ context.Context, memoryID string) ([]*model.MemoryUnlock, error) {
	return f.unlocks[memoryID], nil
}

// stubAnalyzer returns a canned analysis and records the text it saw.
type stubAnalyzer struct {
	result   model.EmotionAnalysis
	lastText string
}

func (s *stubAnalyzer) AnalyzeEmotion(_ context.Context, text string) model.EmotionAnalysis {
	s.lastText = text
	return s.result
}

func (s *stubAnalyzer) AnalyzeVoiceTranscript(_ context.Context, transcript, _ string) model.EmotionAnalysis {
	s.lastText = transcript
	return s.result
}

func strPtr(s string) *string { return &s }

func TestCreateMemoryClassifiesWhenEmotionMissing(t *testing.T) {
	fs := newFakeStore()
	an := &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "joy", Confidence: 0.85}}
	svc := NewMemoryService(fs, an)

	created, err := svc.CreateMemory(context.Background(), &model.Memory{
		UserID:    "user-1",
		Title:     "first concert",
		Content:   strPtr("we sang until our voices gave out"),
		Latitude:  51.5,
		Longitude: -0.12,
	})
	require.NoError(t, err)
	assert.Equal(t, "joy", created.Emotion)
	assert.Equal(t, 0.85, created.EmotionConfidence)
	assert.Equal(t, "we sang until our voices gave out", an.lastText)
	assert.Equal(t, model.AccessPublic, created.AccessType)
}

func TestCreateMemoryTextPreference(t *testing.T) {
	an := &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "peace", Confidence: 0.7}}
	svc := NewMemoryService(newFakeStore(), an)

	// Description is used when content is absent, title as last resort.
	_, err := svc.CreateMemory(context.Background(), &model.Memory{
		UserID:      "user-1",
		Title:       "quiet morning",
		Description: strPtr("mist over the lake"),
	})
	require.NoError(t, err)
	assert.Equal(t, "mist over the lake", an.lastText)

	_, err = svc.CreateMemory(context.Background(), &model.Memory{
		UserID: "user-1",
		Title:  "quiet evening",
	})
	require.NoError(t, err)
	assert.Equal(t, "quiet evening", an.lastText)
}

func TestCreateMemoryKeepsCallerEmotion(t *testing.T) {
	an := &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "joy", Confidence: 0.9}}
	svc := NewMemoryService(newFakeStore(), an)

	created, err := svc.CreateMemory(context.Background(), &model.Memory{
		UserID:            "user-1",
		Title:             "tagged already",
		Emotion:           "nostalgia",
		EmotionConfidence: 1.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "nostalgia", created.Emotion)
	assert.Equal(t, 1.0, created.EmotionConfidence, "confidence clamped to [0,1]")
	assert.Empty(t, an.lastText, "analyzer must not run when emotion supplied")
}

func TestCreateMemoryValidation(t *testing.T) {
	svc := NewMemoryService(newFakeStore(), &stubAnalyzer{})

	_, err := svc.CreateMemory(context.Background(), &model.Memory{UserID: "u", Title: "t", Latitude: 91})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateMemory(context.Background(), &model.Memory{UserID: "u", Title: "t", Longitude: -181})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateMemory(context.Background(), &model.Memory{UserID: "u", Title: "t", AccessType: "vip"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateMemory(context.Background(), &model.Memory{UserID: "u", Title: "t", Duration: -3})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNearbyDefaultsAndUnitConversion(t *testing.T) {
	fs := newFakeStore()
	svc := NewMemoryService(fs, &stubAnalyzer{})

	out, err := svc.Nearby(context.Background(), 40.0, -73.9, 0)
	require.NoError(t, err)
	assert.NotNil(t, out, "nearby result must be a non-nil slice")

	require.Len(t, fs.nearbyCalls, 1)
	call := fs.nearbyCalls[0]
	assert.Equal(t, 5.0, call.radiusKm, "default 5000 m converted to km")
	assert.Equal(t, DefaultNearbyLimit, call.limit)

	_, err = svc.Nearby(context.Background(), 40.0, -73.9, 1200)
	require.NoError(t, err)
	assert.Equal(t, 1.2, fs.nearbyCalls[1].radiusKm)

	_, err = svc.Nearby(context.Background(), 123.0, 0, 1000)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestEmotionMapSampleFallback(t *testing.T) {
	fs := newFakeStore()
	svc := NewMemoryService(fs, &stubAnalyzer{})

	points, err := svc.EmotionMap(context.Background())
	require.NoError(t, err)
	assert.Len(t, points, 10, "empty store serves the sample set")

	fs.mapRows = []*model.EmotionMapPoint{{Emotion: "joy", Count: 3, Lat: 10, Lng: 20}}
	points, err = svc.EmotionMap(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "joy", points[0].Emotion)
}

func TestUnlockRules(t *testing.T) {
	fs := newFakeStore()
	svc := NewMemoryService(fs, &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "calm"}})

	pub, err := svc.CreateMemory(context.Background(), &model.Memory{UserID: "owner", Title: "pub"})
	require.NoError(t, err)
	priv, err := svc.CreateMemory(context.Background(), &model.Memory{UserID: "owner", Title: "priv", AccessType: model.AccessPrivate})
	require.NoError(t, err)

	unlock, err := svc.Unlock(context.Background(), &model.MemoryUnlock{MemoryID: pub.MemoryID, UnlockedBy: "visitor"})
	require.NoError(t, err)
	assert.False(t, unlock.UnlockedAt.IsZero())

	got, err := svc.GetMemory(context.Background(), pub.MemoryID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UnlockCount)

	_, err = svc.Unlock(context.Background(), &model.MemoryUnlock{MemoryID: priv.MemoryID, UnlockedBy: "visitor"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Unlock(context.Background(), &model.MemoryUnlock{MemoryID: pub.MemoryID, UnlockedBy: "owner"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Unlock(context.Background(), &model.MemoryUnlock{MemoryID: "missing", UnlockedBy: "visitor"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateMemoryValidation(t *testing.T) {
	fs := newFakeStore()
	svc := NewMemoryService(fs, &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "calm"}})

	created, err := svc.CreateMemory(context.Background(), &model.Memory{UserID: "owner", Title: "before"})
	require.NoError(t, err)

	_, err = svc.UpdateMemory(context.Background(), created.MemoryID, "owner", model.MemoryUpdate{Emotion: strPtr("")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateMemory(context.Background(), created.MemoryID, "owner", model.MemoryUpdate{AccessType: strPtr("vip")})
	assert.ErrorIs(t, err, model.ErrValidation)

	updated, err := svc.UpdateMemory(context.Background(), created.MemoryID, "owner", model.MemoryUpdate{Title: strPtr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)

	_, err = svc.UpdateMemory(context.Background(), created.MemoryID, "someone-else", model.MemoryUpdate{Title: strPtr("hijack")})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteMemoryOwnerScoped(t *testing.T) {
	fs := newFakeStore()
	svc := NewMemoryService(fs, &stubAnalyzer{result: model.EmotionAnalysis{PrimaryEmotion: "calm"}})

	created, err := svc.CreateMemory(context.Background(), &model.Memory{UserID: "owner", Title: "gone"})
	require.NoError(t, err)

	err = svc.DeleteMemory(context.Background(), created.MemoryID, "someone-else")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = svc.DeleteMemory(context.Background(), created.MemoryID, "owner")
	require.NoError(t, err)

	_, err = svc.GetMemory(context.Background(), created.MemoryID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
