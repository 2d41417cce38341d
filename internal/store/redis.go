package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/demographics-cli/internal/model"
)

const redisKeyPrefix = "demographics:report:"

// RedisStore implements Store on Redis. Entries expire through native key
// TTLs, so DeleteExpired has nothing to do.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedis connects to Redis at addr and pings it.
func NewRedis(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "redis: ping")
	}
	return NewRedisFromClient(rdb), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Migrate(context.Context) error {
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) GetReport(ctx context.Context, cacheKey string) (*model.DemographicReport, error) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "redis: get report")
	}
	return decodeReport(data, "redis")
}

func (s *RedisStore) SetReport(ctx context.Context, cacheKey string, _ model.CityKey, report *model.DemographicReport, ttl time.Duration) error {
	if ttl <= 0 {
		return eris.New("redis: ttl must be positive")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "redis: marshal report")
	}
	return eris.Wrap(s.rdb.Set(ctx, redisKeyPrefix+cacheKey, data, ttl).Err(), "redis: set report")
}

func (s *RedisStore) DeleteExpired(context.Context) (int, error) {
	return 0, nil
}
