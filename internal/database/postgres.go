package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS gymbuddy_profiles (
	session_id TEXT PRIMARY KEY,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertProfile = `
INSERT INTO gymbuddy_profiles (session_id, profile, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (session_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = now()`

const selectProfile = `SELECT profile FROM gymbuddy_profiles WHERE session_id = $1`

// Postgres persists profiles so sessions survive restarts.
type Postgres struct {
	Dbpool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connStr string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := pool.Exec(initCtx, createProfilesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create profiles table: %w", err)
	}

	log.Info().Msg("Connected to Postgres profile store")
	return &Postgres{Dbpool: pool}, nil
}

func (s *Postgres) Get(ctx context.Context, sessionID string) (Profile, bool, error) {
	if sessionID == "" {
		return Profile{}, false, ErrInvalidSession
	}

	var raw []byte
	err := s.Dbpool.QueryRow(ctx, selectProfile, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, fmt.Errorf("failed to load profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, false, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	return p, true, nil
}

func (s *Postgres) Put(ctx context.Context, sessionID string, profile Profile) error {
	if sessionID == "" {
		return ErrInvalidSession
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if _, err := s.Dbpool.Exec(ctx, upsertProfile, sessionID, raw); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Health checks the health of the database connection.
func (s *Postgres) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	stats := map[string]string{"store": "postgres"}

	if err := s.Dbpool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error().Err(err).Msg("db down")
		return stats
	}

	poolStats := s.Dbpool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	if poolStats.AcquiredConns() > (poolStats.MaxConns() * 8 / 10) { // 80% capacity
		stats["message"] = "The database connection pool is experiencing heavy load."
	}

	return stats
}

func (s *Postgres) Close() {
	log.Info().Msg("Disconnected from Postgres profile store")
	s.Dbpool.Close()
}
