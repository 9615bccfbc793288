package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/javiermolinar/agenda/internal/schedule"
)

const redisKeyPrefix = "availability:"

// Redis implements schedule.Repository with one JSON value per key.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a repository over an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedis(client), nil
}

func (r *Redis) key(k string) string {
	return redisKeyPrefix + k
}

// Load retrieves the state stored under key. Returns nil if there is none.
func (r *Redis) Load(ctx context.Context, key string) (*schedule.State, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return schedule.DecodeState(data)
}

// Save stores the state under key without expiry.
func (r *Redis) Save(ctx context.Context, key string, state *schedule.State) error {
	data, err := schedule.EncodeState(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
