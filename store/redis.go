package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements RepoStore on Redis. Keys are namespaced as
// "{prefix}:{userID}" with the record stored as JSON.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RepoStore backed by the given Redis client.
// Prefix defaults to "repo".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "repo"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID int64) string {
	return fmt.Sprintf("%s:%d", s.prefix, userID)
}

func (s *RedisStore) Get(userID int64) (RepoInfo, bool, error) {
	raw, err := s.client.Get(context.Background(), s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RepoInfo{}, false, nil
		}
		return RepoInfo{}, false, err
	}
	var info RepoInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return RepoInfo{}, false, fmt.Errorf("decode repo record: %w", err)
	}
	return info, true, nil
}

func (s *RedisStore) Put(userID int64, info RepoInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), s.key(userID), raw, 0).Err()
}

func (s *RedisStore) Delete(userID int64) error {
	return s.client.Del(context.Background(), s.key(userID)).Err()
}

var _ RepoStore = (*RedisStore)(nil)
