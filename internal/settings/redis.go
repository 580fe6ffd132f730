package settings

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

const redisKeyPrefix = "ksclock:settings:"

// RedisStore keeps every setting for one device in a single hash.
type RedisStore struct {
	client *redis.Client
	hash   string
}

func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{client: client, hash: redisKeyPrefix + deviceID}
}

func (r *RedisStore) Get(ctx context.Context, key Key) (int64, error) {
	raw, err := r.client.HGet(ctx, r.hash, string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (r *RedisStore) Set(ctx context.Context, key Key, value int64) error {
	return r.client.HSet(ctx, r.hash, string(key), value).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key Key) error {
	return r.client.HDel(ctx, r.hash, string(key)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
