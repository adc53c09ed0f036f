package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/teeproxy/internal/obs"
)

// Redis wraps the in-memory store and mirrors every counter change into a
// per-instance Redis hash so a fleet of relays can be inspected centrally.
// Snapshot always answers from local state; Redis is write-through only and
// a Redis outage never affects relaying.
type Redis struct {
	local  *Memory
	client *redis.Client
	key    string
	keyTTL time.Duration
}

const redisOpTimeout = 2 * time.Second

func NewRedis(addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &Redis{
		local:  NewMemory(),
		client: rdb,
		key:    fmt.Sprintf("teeproxy:stats:%d", time.Now().UnixNano()),
		keyTTL: 24 * time.Hour,
	}, nil
}

var _ Store = (*Redis)(nil)

func (r *Redis) SessionStarted() {
	r.local.SessionStarted()
	r.publish(map[string]int64{"total_sessions": 1, "active_sessions": 1})
}

func (r *Redis) SessionClosed(clientBytes, serverBytes int64) {
	r.local.SessionClosed(clientBytes, serverBytes)
	r.publish(map[string]int64{
		"active_sessions": -1,
		"client_bytes":    clientBytes,
		"server_bytes":    serverBytes,
	})
}

func (r *Redis) DialFailed() {
	r.local.DialFailed()
	r.publish(map[string]int64{"dial_failures": 1})
}

func (r *Redis) Snapshot() Snapshot { return r.local.Snapshot() }

func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) publish(deltas map[string]int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	pipe := r.client.Pipeline()
	for field, delta := range deltas {
		pipe.HIncrBy(ctx, r.key, field, delta)
	}
	pipe.Expire(ctx, r.key, r.keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		obs.Error("redis.publish", obs.Fields{"err": err.Error(), "key": r.key})
	}
}
