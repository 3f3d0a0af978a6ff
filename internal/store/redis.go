// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"prepline/internal/common/config"
	"prepline/internal/common/errors"
)

const runKeyPrefix = "prepline:run:"

// Redis archives run documents in redis as JSON blobs. Runs are kept for
// retention so a learner can come back days later and resume a gated run.
type Redis struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedis(cfg config.StoreConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return &Redis{client: rdb, retention: 30 * 24 * time.Hour}
}

// NewRedisWithClient wraps an existing client; used by tests against miniredis.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, retention: 30 * 24 * time.Hour}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *Redis) Save(ctx context.Context, runID string, doc map[string]interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, runKeyPrefix+runID, raw, r.retention).Err(); err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, runID string) (map[string]interface{}, bool, error) {
	raw, err := r.client.Get(ctx, runKeyPrefix+runID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreUnavailableError(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (r *Redis) Delete(ctx context.Context, runID string) error {
	if err := r.client.Del(ctx, runKeyPrefix+runID).Err(); err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
