package store

import (
	"context"

	"github.com/echo-social/echo-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres).
type Store interface {
	Users() Users
	Memories() Memories
	Unlocks() Unlocks
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, userID string, upd model.UserUpdate) (*model.User, error)
}

type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	GetByID(ctx context.Context, memoryID string) (*model.Memory, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Memory, error)
	// Nearby returns public memories within radiusKm of (lat, lng), nearest
	// first, capped at limit.
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*model.NearbyMemory, error)
	Update(ctx context.Context, memoryID, userID string, upd model.MemoryUpdate) (*model.Memory, error)
	Delete(ctx context.Context, memoryID, userID string) error
	EmotionMap(ctx context.Context) ([]*model.EmotionMapPoint, error)
	Stats(ctx context.Context, userID string) (*model.UserStats, error)
}

type Unlocks interface {
	// Create records the unlock and increments the memory's unlock counter
	// in the same transaction.
	Create(ctx context.Context, u *model.MemoryUnlock) (*model.MemoryUnlock, error)
	ListByMemory(ctx context.Context, memoryID string) ([]*model.MemoryUnlock, error)
}
