/*
Package database keeps onboarding profiles keyed by session id. The default
store lives in process memory; a Postgres store is used when DATABASE_URL is set.
*/
package database

import (
	"context"
	"errors"

	"gymbuddy/internal/config"
)

// ErrInvalidSession is returned for an empty session id.
var ErrInvalidSession = errors.New("session id is required")

// Service represents a store of session profiles.
type Service interface {
	// Get returns the profile saved for the session, if any.
	Get(ctx context.Context, sessionID string) (Profile, bool, error)

	// Put saves (or replaces) the profile for the session.
	Put(ctx context.Context, sessionID string, profile Profile) error

	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health(ctx context.Context) map[string]string

	// Close releases the underlying resources.
	Close()
}

// NewService picks the store implementation from the configuration.
func NewService(ctx context.Context, cfg *config.Config) (Service, error) {
	if cfg.DatabaseURL != "" {
		return NewPostgres(ctx, cfg.DatabaseURL)
	}
	return NewMemory(cfg.ProfileCacheSize)
}
