package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ViewCounter counts resume views per application. Counts only ever grow.
type ViewCounter interface {
	Increment(ctx context.Context, applicationID string) (int64, error)
	Get(ctx context.Context, applicationID string) (int64, error)
}

// RedisViewCounter keeps view counts in Redis so concurrent views from
// several hiring managers aggregate without read-modify-write races.
type RedisViewCounter struct {
	client *redis.Client
}

func NewRedisViewCounter(client *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{client: client}
}

func viewKey(applicationID string) string {
	return fmt.Sprintf("resume_views:%s", applicationID)
}

func (c *RedisViewCounter) Increment(ctx context.Context, applicationID string) (int64, error) {
	return c.client.Incr(ctx, viewKey(applicationID)).Result()
}

func (c *RedisViewCounter) Get(ctx context.Context, applicationID string) (int64, error) {
	n, err := c.client.Get(ctx, viewKey(applicationID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// memoryViewCounter backs the seeded demo mode where Redis is not running.
type memoryViewCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryViewCounter returns a process-local ViewCounter.
func NewMemoryViewCounter() ViewCounter {
	return &memoryViewCounter{counts: make(map[string]int64)}
}

func (c *memoryViewCounter) Increment(_ context.Context, applicationID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[applicationID]++
	return c.counts[applicationID], nil
}

func (c *memoryViewCounter) Get(_ context.Context, applicationID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[applicationID], nil
}
