package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces status keys.
const keyPrefix = "mlactions:status:"

// Redis stores status lines as a JSON array per action, so a restarted
// server can still answer status queries.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the redis store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL of saved status; zero keeps it forever.
	TTL time.Duration
}

// NewRedis connects to redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, ttl: opts.TTL}, nil
}

func statusKey(action string) string { return keyPrefix + action }

func (r *Redis) Save(ctx context.Context, action string, lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statusKey(action), b, r.ttl).Err()
}

func (r *Redis) Load(ctx context.Context, action string) ([]string, bool, error) {
	s, err := r.client.Get(ctx, statusKey(action)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var lines []string
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, false, fmt.Errorf("decode status for %s: %w", action, err)
	}
	return lines, true, nil
}

// Close closes the client.
func (r *Redis) Close() error { return r.client.Close() }
