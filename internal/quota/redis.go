package quota

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyTTL keeps yesterday's counters around for in-flight commits.
const keyTTL = 48 * time.Hour

var reserveScript = redis.NewScript(`
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local inflight = tonumber(redis.call('HGET', KEYS[1], 'inflight') or '0')
if count + inflight >= tonumber(ARGV[1]) then
  return {count, inflight, 0}
end
inflight = redis.call('HINCRBY', KEYS[1], 'inflight', 1)
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {count, inflight, 1}
`)

var commitScript = redis.NewScript(`
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local inflight = tonumber(redis.call('HGET', KEYS[1], 'inflight') or '0')
if inflight > 0 then
  inflight = redis.call('HINCRBY', KEYS[1], 'inflight', -1)
end
if count < tonumber(ARGV[1]) then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {count, inflight}
`)

var releaseScript = redis.NewScript(`
local inflight = tonumber(redis.call('HGET', KEYS[1], 'inflight') or '0')
if inflight > 0 then
  inflight = redis.call('HINCRBY', KEYS[1], 'inflight', -1)
end
return inflight
`)

// RedisStore shares counters between processes. Each action and day is one
// hash with the fields count and inflight.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: "kc:quota"}
}

// NewRedisStoreFromURL connects using a redis:// URL and pings the server.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client), nil
}

// WithPrefix returns a store sharing the client whose keys live under prefix.
func (s *RedisStore) WithPrefix(prefix string) *RedisStore {
	return &RedisStore{client: s.client, prefix: prefix}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(action Action, day string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, action, day)
}

func (s *RedisStore) Load(ctx context.Context, action Action, day string, max int) (Counter, error) {
	vals, err := s.client.HMGet(ctx, s.key(action, day), "count", "inflight").Result()
	if err != nil {
		return Counter{}, fmt.Errorf("failed to load quota counter: %w", err)
	}
	return Counter{Date: day, Count: hashInt(vals[0]), InFlight: hashInt(vals[1]), Max: max}, nil
}

func (s *RedisStore) Reserve(ctx context.Context, action Action, day string, max int) (Counter, bool, error) {
	res, err := reserveScript.Run(ctx, s.client, []string{s.key(action, day)}, max, int(keyTTL.Seconds())).Int64Slice()
	if err != nil {
		return Counter{}, false, fmt.Errorf("failed to reserve quota: %w", err)
	}
	c := Counter{Date: day, Count: int(res[0]), InFlight: int(res[1]), Max: max}
	return c, res[2] == 1, nil
}

func (s *RedisStore) Commit(ctx context.Context, action Action, day string, max int) (Counter, error) {
	res, err := commitScript.Run(ctx, s.client, []string{s.key(action, day)}, max, int(keyTTL.Seconds())).Int64Slice()
	if err != nil {
		return Counter{}, fmt.Errorf("failed to commit quota: %w", err)
	}
	return Counter{Date: day, Count: int(res[0]), InFlight: int(res[1]), Max: max}, nil
}

func (s *RedisStore) Release(ctx context.Context, action Action, day string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(action, day)}).Err(); err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

func hashInt(v interface{}) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
