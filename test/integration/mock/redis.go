package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Redis is an in-process Redis shared by every scenario. It backs the
// settlement lock and the login rate limiter of the server under test.
type Redis struct {
	server *miniredis.Miniredis
	client *redis.Client
}

var (
	redisOnce sync.Once
	redisConn *Redis
)

// NewRedis returns the shared in-process Redis, starting it on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisConn = &Redis{
			server: server,
			client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisConn
}

// Client is the connection handed to the server under test.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Clear drops every key, releasing any lease left over from a previous scenario.
func (r *Redis) Clear() error {
	return r.client.FlushAll(context.Background()).Err()
}

// Hold takes key on behalf of another instance for ttl.
func (r *Redis) Hold(key string, ttl time.Duration) error {
	if err := r.server.Set(key, "held-by-another-instance"); err != nil {
		return err
	}
	r.server.SetTTL(key, ttl)
	return nil
}

// Held reports whether key is currently set.
func (r *Redis) Held(key string) bool {
	return r.server.Exists(key)
}

// FastForward expires leases as if d had passed. Redis TTLs do not follow
// the scenario clock, so lease expiry is driven separately.
func (r *Redis) FastForward(d time.Duration) {
	r.server.FastForward(d)
}
