package database

import (
	"context"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Memory keeps profiles in a bounded LRU; the least recently used session is
// dropped once capacity is reached.
type Memory struct {
	size     int
	profiles *lru.Cache[string, Profile]
}

func NewMemory(size int) (*Memory, error) {
	cache, err := lru.NewWithEvict[string, Profile](size, func(sessionID string, _ Profile) {
		log.Debug().Str("session_id", sessionID).Msg("Evicted session profile")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &Memory{size: size, profiles: cache}, nil
}

func (m *Memory) Get(_ context.Context, sessionID string) (Profile, bool, error) {
	if sessionID == "" {
		return Profile{}, false, ErrInvalidSession
	}
	p, ok := m.profiles.Get(sessionID)
	return p, ok, nil
}

func (m *Memory) Put(_ context.Context, sessionID string, profile Profile) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	m.profiles.Add(sessionID, profile)
	return nil
}

func (m *Memory) Health(_ context.Context) map[string]string {
	return map[string]string{
		"status":   "up",
		"store":    "memory",
		"sessions": strconv.Itoa(m.profiles.Len()),
		"capacity": strconv.Itoa(m.size),
	}
}

func (m *Memory) Close() {
	m.profiles.Purge()
}
