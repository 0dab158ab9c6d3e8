package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UserDirectory resolves display names for presentation joins.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, bool, error)
}

// NameSource is the authoritative lookup behind a directory.
type NameSource interface {
	DisplayName(ctx context.Context, userID string) (string, bool, error)
}

const directoryKeyPrefix = "crm:user:name:"

// CachedDirectory fronts a NameSource with a Redis read-through cache.
// Cache faults are logged and fall back to the source.
type CachedDirectory struct {
	source NameSource
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory builds a directory. A nil client disables caching.
func NewCachedDirectory(source NameSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDirectory{source: source, client: client, ttl: ttl, logger: logger}
}

// DisplayName returns the cached name or loads it from the source.
func (d *CachedDirectory) DisplayName(ctx context.Context, userID string) (string, bool, error) {
	if d.client != nil && d.ttl > 0 {
		name, err := d.client.Get(ctx, directoryKeyPrefix+userID).Result()
		switch {
		case err == nil:
			return name, true, nil
		case !errors.Is(err, redis.Nil):
			d.logger.Warn("directory cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	name, ok, err := d.source.DisplayName(ctx, userID)
	if err != nil || !ok {
		return name, ok, err
	}

	if d.client != nil && d.ttl > 0 {
		if err := d.client.Set(ctx, directoryKeyPrefix+userID, name, d.ttl).Err(); err != nil {
			d.logger.Warn("directory cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return name, true, nil
}

// Invalidate drops a cached name after the user was renamed or removed.
func (d *CachedDirectory) Invalidate(ctx context.Context, userID string) {
	if d.client == nil {
		return
	}
	if err := d.client.Del(ctx, directoryKeyPrefix+userID).Err(); err != nil {
		d.logger.Warn("directory cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
