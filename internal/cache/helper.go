package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"streamsite/internal/middleware"
	"streamsite/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
// A nil client always misses.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	s, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// fillIfCurrent stores ARGV[2] under KEYS[1] only while the version counter
// KEYS[2] still reads ARGV[1], so a fill computed before an invalidation is
// dropped instead of overwriting the newer state.
var fillIfCurrent = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if (v or '') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// VersionKey is the counter Invalidate bumps for key.
func VersionKey(key string) string {
	return key + ":ver"
}

// CacheAside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. The store is skipped when key was
// invalidated while fetch ran. Redis failures degrade to a plain fetch; only
// fetch errors are returned.
func CacheAside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, rdb, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		observability.CacheLookups.WithLabelValues(cacheName(key), "hit").Inc()
		return nil
	}
	if rdb == nil {
		return fetch()
	}
	observability.CacheLookups.WithLabelValues(cacheName(key), "miss").Inc()

	version, verErr := rdb.Get(ctx, VersionKey(key)).Result()
	if errors.Is(verErr, redis.Nil) {
		version, verErr = "", nil
	}

	if err := fetch(); err != nil {
		return err
	}
	if verErr != nil {
		// Without the version a fill could resurrect stale data.
		return nil
	}

	// best-effort
	if err := fillVersioned(ctx, rdb, key, version, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

func fillVersioned(ctx context.Context, rdb *redis.Client, key, version string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ms := ttl.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	return fillIfCurrent.Run(ctx, rdb, []string{key, VersionKey(key)}, version, b, ms).Err()
}

// Invalidate drops keys and bumps their versions so in-flight CacheAside
// fills started before the write are discarded. Errors are logged; a stale
// entry expires with its TTL.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, VersionKey(key))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

// cacheName keeps metric labels bounded: "twitch:stats:foo" -> "twitch".
func cacheName(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
