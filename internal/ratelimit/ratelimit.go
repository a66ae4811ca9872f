// Package ratelimit counts hits per key inside fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/redis/go-redis/v9"
)

// Counter records one hit for key and returns the hit count inside the
// current window together with the time left until the window resets.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

type MemoryCounter struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets map[string]*bucket
}

type bucket struct {
	count     int64
	windowEnd time.Time
}

func NewMemoryCounter(c clock.Clock) *MemoryCounter {
	if c == nil {
		c = clock.System()
	}
	return &MemoryCounter{clock: c, buckets: make(map[string]*bucket)}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(window)}
		m.buckets[key] = b
		m.sweep(now)
	}

	b.count++
	return b.count, b.windowEnd.Sub(now), nil
}

// sweep drops expired buckets so idle clients do not accumulate.
func (m *MemoryCounter) sweep(now time.Time) {
	for k, b := range m.buckets {
		if !now.Before(b.windowEnd) {
			delete(m.buckets, k)
		}
	}
}

// The first hit of a window sets the expiry, so the window is fixed from that
// hit rather than sliding with every request.
const fixedWindowLua = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`

type RedisCounter struct {
	rdb    *redis.Client
	prefix string
	script *redis.Script
}

func NewRedisCounter(rdb *redis.Client, prefix string) *RedisCounter {
	if prefix == "" {
		prefix = "electionhub:ratelimit:"
	}
	return &RedisCounter{
		rdb:    rdb,
		prefix: prefix,
		script: redis.NewScript(fixedWindowLua),
	}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := r.script.Run(ctx, r.rdb, []string{r.prefix + key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit eval: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("ratelimit invalid result")
	}

	return toInt64(values[0]), time.Duration(toInt64(values[1])) * time.Millisecond, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
