// Package cache stores rendered leaderboard pages.
//
// Every key lives under a per-contest version. Writers bump the version after their write
// commits, which makes every page computed before it unreachable. A read that lands between
// the commit and the bump can still get the previous page; once Bump returns it cannot, and
// the TTL bounds how long a page survives a failed bump.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/leetarena/arena/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Cache interface {
	// Version returns the current version of a contest's cached data.
	Version(ctx context.Context, contestID string) (int64, error)
	// Bump invalidates every page of a contest.
	Bump(ctx context.Context, contestID string) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// PageKey identifies one leaderboard page at a given version.
func PageKey(contestID string, version int64, limit, offset int) string {
	return fmt.Sprintf("arena:leaderboard:%s:v%d:%d:%d", contestID, version, limit, offset)
}

func versionKey(contestID string) string {
	return fmt.Sprintf("arena:leaderboard:%s:version", contestID)
}

// New picks Redis when an address is configured, the in-process cache otherwise.
func New(cfg config.Cache) (Cache, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if cfg.Redis.Addr == "" {
		zap.S().Info("leaderboard cache: in-memory")
		return NewMemory(ttl), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	zap.S().Infof("leaderboard cache: redis at %s", cfg.Redis.Addr)
	return NewRedis(rdb, ttl), nil
}
