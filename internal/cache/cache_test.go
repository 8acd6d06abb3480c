package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*SessionStorage)(nil)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()

	var out payload
	found, err := GetJSON(ctx, rdb, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, "k", payload{Name: "a", Count: 2}, time.Minute))
	found, err = GetJSON(ctx, rdb, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, out)
}

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	var out payload

	found, err := GetJSON(ctx, nil, "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, nil, "k", out, time.Minute))
	Invalidate(ctx, nil, "k")

	calls := 0
	err = CacheAside(ctx, nil, "k", &out, time.Minute, func() error {
		calls++
		out = payload{Name: "db"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "db", out.Name)
}

func TestCacheAside(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "fresh", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, CacheAside(ctx, rdb, SiteSettingsKey, &first, time.Minute, fetch(&first)))
	var second payload
	require.NoError(t, CacheAside(ctx, rdb, SiteSettingsKey, &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls, "second lookup should be served from redis")
	assert.Equal(t, first, second)

	Invalidate(ctx, rdb, SiteSettingsKey)
	assert.False(t, mr.Exists(SiteSettingsKey))

	var third payload
	require.NoError(t, CacheAside(ctx, rdb, SiteSettingsKey, &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestCacheAside_InvalidatedDuringFetchIsNotStored(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	var stale payload
	err := CacheAside(ctx, rdb, FeaturedStreamKey, &stale, time.Minute, func() error {
		stale = payload{Name: "old"}
		// A write commits and invalidates while this read is in flight.
		Invalidate(ctx, rdb, FeaturedStreamKey)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", stale.Name)
	assert.False(t, mr.Exists(FeaturedStreamKey), "stale value must not be written back")

	var fresh payload
	require.NoError(t, CacheAside(ctx, rdb, FeaturedStreamKey, &fresh, time.Minute, func() error {
		fresh = payload{Name: "new"}
		return nil
	}))
	assert.Equal(t, "new", fresh.Name)
	assert.True(t, mr.Exists(FeaturedStreamKey))

	var cached payload
	found, err := GetJSON(ctx, rdb, FeaturedStreamKey, &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", cached.Name)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	Invalidate(ctx, rdb, SiteSettingsKey)
	Invalidate(ctx, rdb, SiteSettingsKey)

	v, err := mr.Get(VersionKey(SiteSettingsKey))
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestCacheAside_FetchErrorNotCached(t *testing.T) {
	mr, rdb := setupRedis(t)
	boom := errors.New("db down")

	var out payload
	err := CacheAside(context.Background(), rdb, "k", &out, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCacheAside_RedisDownFallsBackToFetch(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Close()

	var out payload
	err := CacheAside(context.Background(), rdb, "k", &out, time.Minute, func() error {
		out.Name = "db"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "db", out.Name)
}

func TestTwitchStatsKey(t *testing.T) {
	assert.Equal(t, "twitch:stats:rennsz", TwitchStatsKey("RennSZ"))
	assert.Equal(t, "twitch", cacheName(TwitchStatsKey("x")))
	assert.Equal(t, "site_settings", cacheName(SiteSettingsKey))
}

func TestSessionStorage(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewSessionStorage(rdb, "")

	val, err := store.Get("absent")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("abc", []byte("data"), time.Hour))
	assert.True(t, mr.Exists("session:abc"))
	mr.FastForward(30 * time.Minute)

	val, err = store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), val)

	require.NoError(t, store.Delete("abc"))
	val, err = store.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("one", []byte("1"), 0))
	require.NoError(t, store.Set("two", []byte("2"), 0))
	require.NoError(t, rdb.Set(context.Background(), "unrelated", "x", 0).Err())
	require.NoError(t, store.Reset())
	assert.False(t, mr.Exists("session:one"))
	assert.False(t, mr.Exists("session:two"))
	assert.True(t, mr.Exists("unrelated"))

	assert.NoError(t, store.Close())
}

func TestSessionStorage_Expiry(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewSessionStorage(rdb, "sess:")

	require.NoError(t, store.Set("k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	val, err := store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}
