package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fitsocial/backend/internal/config"
)

const blacklistPrefix = "blacklist:"

// NewRedisClient creates and pings a Redis client from the configuration.
func NewRedisClient(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", cfg.RedisAddr)
	}
	log.Infow("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return rdb, nil
}

// RedisBlacklist stores revoked token ids as expiring keys.
type RedisBlacklist struct {
	rdb redis.Cmdable
}

func NewRedisBlacklist(rdb redis.Cmdable) *RedisBlacklist {
	return &RedisBlacklist{rdb: rdb}
}

// Add marks jti as revoked for ttl.
func (b *RedisBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return b.rdb.Set(ctx, blacklistPrefix+jti, 1, ttl).Err()
}

// Contains reports whether jti is currently revoked.
func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
