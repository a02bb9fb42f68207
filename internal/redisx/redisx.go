package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrExpireScript increments a counter and sets its TTL on the first hit only.
const incrExpireScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`

type Client struct {
	Rdb        *redis.Client
	incrExpire *redis.Script
}

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb, incrExpire: redis.NewScript(incrExpireScript)}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

// IncrExpire atomically increments key and starts its ttl on creation.
func (c *Client) IncrExpire(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return c.incrExpire.Run(ctx, c.Rdb, []string{key}, ttl.Milliseconds()).Int64()
}

func (c *Client) Close() error { return c.Rdb.Close() }
