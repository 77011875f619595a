package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/echo-social/echo-server/internal/geo"
	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users       { return &users{db: s.db} }
func (s *pgStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *pgStore) Unlocks() store.Unlocks   { return &unlocks{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap applies the embedded schema. Statements are idempotent
// (IF NOT EXISTS) so it is safe to run on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range DDLStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func mapNoRows(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return err
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, username, email, avatar, bio)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, id, m.Username, m.Email, m.Avatar, m.Bio)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, username, email, avatar, bio, creation_time
        FROM users WHERE user_id=$1
    `, userID)
	if err := row.Scan(&out.UserID, &out.Username, &out.Email, &out.Avatar, &out.Bio, &out.CreationTime); err != nil {
		return nil, mapNoRows(err, "user "+userID)
	}
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, username, email, avatar, bio, creation_time
        FROM users WHERE email=$1
    `, email)
	if err := row.Scan(&out.UserID, &out.Username, &out.Email, &out.Avatar, &out.Bio, &out.CreationTime); err != nil {
		return nil, mapNoRows(err, "user by email")
	}
	return &out, nil
}

func (u *users) Update(ctx context.Context, userID string, upd model.UserUpdate) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `
        UPDATE users
        SET avatar = COALESCE($2, avatar),
            bio    = COALESCE($3, bio)
        WHERE user_id=$1
        RETURNING user_id, username, email, avatar, bio, creation_time
    `, userID, upd.Avatar, upd.Bio)
	if err := row.Scan(&out.UserID, &out.Username, &out.Email, &out.Avatar, &out.Bio, &out.CreationTime); err != nil {
		return nil, mapNoRows(err, "user "+userID)
	}
	return &out, nil
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, mm *model.Memory) (*model.Memory, error) {
	memID := uuid.New().String()
	var created time.Time
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO memories (memory_id, user_id, title, description, content, audio_data, audio_url,
                              emotion, emotion_confidence, latitude, longitude, location_name,
                              duration, access_type, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING creation_time
    `, memID, mm.UserID, mm.Title, mm.Description, mm.Content, mm.AudioData, mm.AudioURL,
		mm.Emotion, mm.EmotionConfidence, mm.Latitude, mm.Longitude, mm.LocationName,
		mm.Duration, mm.AccessType, mm.IsActive)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *mm
	out.MemoryID = memID
	out.CreationTime = created
	return &out, nil
}

const memoryColumns = `memory_id, user_id, title, description, content, audio_data, audio_url,
       emotion, emotion_confidence, latitude, longitude, location_name,
       duration, access_type, is_active, unlock_count, creation_time`

func scanMemory(row interface {
	Scan(dest ...interface{}) error
}, out *model.Memory) error {
	return row.Scan(&out.MemoryID, &out.UserID, &out.Title, &out.Description, &out.Content,
		&out.AudioData, &out.AudioURL, &out.Emotion, &out.EmotionConfidence,
		&out.Latitude, &out.Longitude, &out.LocationName, &out.Duration,
		&out.AccessType, &out.IsActive, &out.UnlockCount, &out.CreationTime)
}

func (m *memories) GetByID(ctx context.Context, memoryID string) (*model.Memory, error) {
	var out model.Memory
	row := m.db.QueryRowContext(ctx, `
        SELECT `+memoryColumns+` FROM memories WHERE memory_id=$1
    `, memoryID)
	if err := scanMemory(row, &out); err != nil {
		return nil, mapNoRows(err, "memory "+memoryID)
	}
	return &out, nil
}

func (m *memories) ListByUser(ctx context.Context, userID string) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT `+memoryColumns+` FROM memories WHERE user_id=$1 ORDER BY creation_time DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Memory
	for rows.Next() {
		var mm model.Memory
		if err := scanMemory(rows, &mm); err != nil {
			return nil, err
		}
		out = append(out, &mm)
	}
	return out, rows.Err()
}

// haversineExpr computes the great-circle distance in kilometers between the
// query point ($1 lat, $2 lng) and a memory row. LEAST guards the acos domain
// against floating-point drift when the two points coincide.
var haversineExpr = fmt.Sprintf(`(%g * acos(LEAST(1.0,
        cos(radians($1)) * cos(radians(latitude)) *
        cos(radians(longitude) - radians($2)) +
        sin(radians($1)) * sin(radians(latitude)))))`, geo.EarthRadiusKm)

// Nearby runs the distance filter and ordering inside the query engine; only
// public memories are eligible and the radius bound is always enforced.
func (m *memories) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*model.NearbyMemory, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT memory_id, user_id, title, description, content, audio_url,
               emotion, emotion_confidence, latitude, longitude, location_name,
               duration, access_type, is_active, unlock_count, creation_time,
               `+haversineExpr+` AS distance_km
        FROM memories
        WHERE access_type = 'public'
          AND `+haversineExpr+` <= $3
        ORDER BY distance_km ASC
        LIMIT $4
    `, lat, lng, radiusKm, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.NearbyMemory
	for rows.Next() {
		var nm model.NearbyMemory
		if err := rows.Scan(&nm.MemoryID, &nm.UserID, &nm.Title, &nm.Description, &nm.Content,
			&nm.AudioURL, &nm.Emotion, &nm.EmotionConfidence, &nm.Latitude, &nm.Longitude,
			&nm.LocationName, &nm.Duration, &nm.AccessType, &nm.IsActive, &nm.UnlockCount,
			&nm.CreationTime, &nm.DistanceKm); err != nil {
			return nil, err
		}
		out = append(out, &nm)
	}
	return out, rows.Err()
}

func (m *memories) Update(ctx context.Context, memoryID, userID string, upd model.MemoryUpdate) (*model.Memory, error) {
	var out model.Memory
	row := m.db.QueryRowContext(ctx, `
        UPDATE memories
        SET title       = COALESCE($3, title),
            description = COALESCE($4, description),
            emotion     = COALESCE($5, emotion),
            access_type = COALESCE($6, access_type)
        WHERE memory_id=$1 AND user_id=$2
        RETURNING `+memoryColumns+`
    `, memoryID, userID, upd.Title, upd.Description, upd.Emotion, upd.AccessType)
	if err := scanMemory(row, &out); err != nil {
		return nil, mapNoRows(err, "memory "+memoryID)
	}
	return &out, nil
}

func (m *memories) Delete(ctx context.Context, memoryID, userID string) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_unlocks WHERE memory_id=$1`, memoryID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE memory_id=$1 AND user_id=$2`, memoryID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("memory %s: %w", memoryID, model.ErrNotFound)
	}
	return tx.Commit()
}

// EmotionMap aggregates public memories into rough 0.1-degree grid cells for
// the global visualization.
func (m *memories) EmotionMap(ctx context.Context) ([]*model.EmotionMapPoint, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT emotion, COUNT(*) AS cnt, AVG(latitude) AS lat, AVG(longitude) AS lng
        FROM memories
        WHERE access_type = 'public'
        GROUP BY emotion, ROUND(latitude::numeric, 1), ROUND(longitude::numeric, 1)
        ORDER BY cnt DESC
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.EmotionMapPoint
	for rows.Next() {
		var p model.EmotionMapPoint
		if err := rows.Scan(&p.Emotion, &p.Count, &p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (m *memories) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	var st model.UserStats
	row := m.db.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(unlock_count), 0),
               COALESCE(MODE() WITHIN GROUP (ORDER BY emotion), '')
        FROM memories WHERE user_id=$1
    `, userID)
	if err := row.Scan(&st.MemoryCount, &st.UnlocksReceived, &st.DominantEmotion); err != nil {
		return nil, err
	}
	return &st, nil
}

// --- Unlocks ---

type unlocks struct{ db *sql.DB }

func (u *unlocks) Create(ctx context.Context, mu *model.MemoryUnlock) (*model.MemoryUnlock, error) {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	unlockID := uuid.New().String()
	var unlockedAt time.Time
	row := tx.QueryRowContext(ctx, `
        INSERT INTO memory_unlocks (unlock_id, memory_id, unlocked_by, echo_content, echo_audio_url)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING unlocked_at
    `, unlockID, mu.MemoryID, mu.UnlockedBy, mu.EchoContent, mu.EchoAudioURL)
	if err := row.Scan(&unlockedAt); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE memories SET unlock_count = unlock_count + 1 WHERE memory_id=$1
    `, mu.MemoryID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("memory %s: %w", mu.MemoryID, model.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := *mu
	out.UnlockID = unlockID
	out.UnlockedAt = unlockedAt
	return &out, nil
}

func (u *unlocks) ListByMemory(ctx context.Context, memoryID string) ([]*model.MemoryUnlock, error) {
	rows, err := u.db.QueryContext(ctx, `
        SELECT unlock_id, memory_id, unlocked_by, echo_content, echo_audio_url, unlocked_at
        FROM memory_unlocks WHERE memory_id=$1 ORDER BY unlocked_at DESC
    `, memoryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.MemoryUnlock
	for rows.Next() {
		var mu model.MemoryUnlock
		if err := rows.Scan(&mu.UnlockID, &mu.MemoryID, &mu.UnlockedBy, &mu.EchoContent, &mu.EchoAudioURL, &mu.UnlockedAt); err != nil {
			return nil, err
		}
		out = append(out, &mu)
	}
	return out, rows.Err()
}
