package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter shares counters between instances. It fails open when Redis errors.
//
// Each counter key carries the index of the fixed window it counts, so a key that
// somehow lost its TTL stops being consulted once the window rolls over.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, log *zap.Logger) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: "lensfolio:rate_limit", log: log, now: time.Now}
}

func (l *RedisLimiter) windowKey(key string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, l.now().UnixNano()/int64(window))
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) bool {
	if window <= 0 {
		return true
	}
	redisKey := l.windowKey(key, window)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, window+time.Second)
		return nil
	})
	if err != nil {
		l.log.Warn("rate limit counter unavailable, allowing request",
			zap.String("key", key), zap.Error(err))
		return true
	}

	return incr.Val() <= int64(maxRequests)
}
