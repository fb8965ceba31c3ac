package ratelimiter

import (
	e "adbridge/internal/core/domain/errors"
	"adbridge/internal/core/domain/logging"
	ratelimiter "adbridge/internal/core/domain/rate_limiter"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

// Redis is a fixed window rate limiter. It fails open when Redis is
// unreachable so that login and password reset stay available.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	k, d := windowKey(key, limit.Interval, r.now())

	cmds, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, d)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed()
	}
	if err != nil {
		r.log.Error(ctx, "Could not check rate limit due to Redis client error.", logging.Entry("err", err))
		return ratelimiter.Allowed()
	}
	intCmd := cmds[0].(*redis.IntCmd)
	if intCmd.Val() > int64(limit.Value) {
		return ratelimiter.NotAllowed()
	}
	return ratelimiter.Allowed()
}

func windowKey(key string, interval ratelimiter.Interval, now time.Time) (string, time.Duration) {
	switch interval {
	case ratelimiter.Hour:
		return fmt.Sprintf("rate-limit::%s::h%d", key, now.Hour()), time.Hour
	case ratelimiter.Minute:
		return fmt.Sprintf("rate-limit::%s::m%d", key, now.Minute()), time.Minute
	default:
		panic("invalid rate limiting interval")
	}
}
