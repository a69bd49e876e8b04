package visits

import (
	"context"
	"strings"
	"time"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "local-library:visits:"

// Each visit pushes the key's expiry out again, so only idle sessions expire.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return count
`)

// RedisCounter keeps counts in Redis keys that expire with the session.
type RedisCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCounter(addr, password string, ttl time.Duration) (*RedisCounter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis counter requires an address")
	}
	if ttl <= 0 {
		return nil, errors.New("redis counter requires a positive ttl")
	}
	return &RedisCounter{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}, nil
}

func (rc *RedisCounter) Increment(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, errcodes.Unauthorized("Session required")
	}

	count, err := incrementScript.Run(ctx, rc.client, []string{keyPrefix + sessionID}, rc.ttl.Milliseconds()).Int()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

func (rc *RedisCounter) Close() error {
	return errors.WithStack(rc.client.Close())
}
