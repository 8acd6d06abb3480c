package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage implements fiber.Storage on top of go-redis so admin
// sessions survive restarts and are shared between instances.
type SessionStorage struct {
	rdb    *redis.Client
	prefix string
}

// NewSessionStorage returns a fiber.Storage keeping entries under prefix.
func NewSessionStorage(rdb *redis.Client, prefix string) *SessionStorage {
	if prefix == "" {
		prefix = SessionKeyPrefix
	}
	return &SessionStorage{rdb: rdb, prefix: prefix}
}

// Get returns nil, nil for missing keys as fiber.Storage requires.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.rdb.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.rdb.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.rdb.Del(context.Background(), s.prefix+key).Err()
}

// Reset deletes every key under the storage prefix.
func (s *SessionStorage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the shared client is closed by the server on shutdown.
func (s *SessionStorage) Close() error {
	return nil
}
