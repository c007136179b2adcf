package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps saves as JSON values that expire after a TTL
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store backed by rdb
// A zero ttl keeps saves forever
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(key string) string {
	return fmt.Sprintf("flipseven:save:%s", key)
}

// Save stores the game, replacing any previous save
func (r *RedisStore) Save(ctx context.Context, game *Game) error {
	if err := validate(game); err != nil {
		return err
	}

	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, redisKey(game.Key), data, r.ttl).Err()
}

// Load returns the saved game, or ErrNotFound
func (r *RedisStore) Load(ctx context.Context, key string) (*Game, error) {
	data, err := r.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var game Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("could not decode save %s: %w", key, err)
	}

	return &game, nil
}

// Delete removes the save, or returns ErrNotFound
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := r.rdb.Del(ctx, redisKey(key)).Result()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
