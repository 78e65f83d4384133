package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const ownerKeyPrefix = "roomify:user:" // roomify:user:{owner_id}:{key}

var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair from a prefix listing. Keys are relative to
// the owner's scope, not the raw Redis keys.
type Entry struct {
	Key   string
	Value []byte
}

// KV is a per-owner key/value store. Every operation is scoped to a single
// owner identity; one owner can never observe another owner's keys.
type KV interface {
	Get(ctx context.Context, ownerID, key string) ([]byte, error)
	Set(ctx context.Context, ownerID, key string, value []byte) error
	List(ctx context.Context, ownerID, prefix string) ([]Entry, error)
}

// RedisKV implements KV on a single Redis database by namespacing keys
// with the owner identity.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (s *RedisKV) Get(ctx context.Context, ownerID, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.ownerKey(ownerID, key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisKV) Set(ctx context.Context, ownerID, key string, value []byte) error {
	if err := s.client.Set(ctx, s.ownerKey(ownerID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// List returns all of the owner's entries whose key starts with prefix,
// values included. Last write wins under concurrent saves; entries deleted
// between scan and fetch are skipped.
func (s *RedisKV) List(ctx context.Context, ownerID, prefix string) ([]Entry, error) {
	scope := s.ownerKey(ownerID, prefix)
	match := scope + "*"

	var entries []Entry
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		for _, full := range keys {
			data, err := s.client.Get(ctx, full).Bytes()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to get key %q: %w", full, err)
			}
			entries = append(entries, Entry{
				Key:   prefix + full[len(scope):],
				Value: data,
			})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return entries, nil
}

func (s *RedisKV) ownerKey(ownerID, key string) string {
	return fmt.Sprintf("%s%s:%s", ownerKeyPrefix, ownerID, key)
}
