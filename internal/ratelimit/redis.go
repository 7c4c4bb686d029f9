package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowScript checks and consumes one message atomically. The key expires one
// window after the client's first message, which plays the part of the sweep.
var allowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if current >= limit then
	return {0, current}
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {1, current}
`)

// RedisLimiter is a Limiter whose counters live in Redis, so every instance
// behind a load balancer shares one quota per client.
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLimiter) key(clientID string) string { return fmt.Sprintf("ratelimit:public:%s", clientID) }

func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	res, err := allowScript.Run(ctx, l.rdb, []string{l.key(clientID)}, l.limit, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("could not evaluate rate limit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limit reply: %v", res)
	}

	remaining := l.limit - int(res[1])
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: res[0] == 1, Remaining: remaining}, nil
}
