package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/forecastlab/lbt/pkg/builder"
)

// Manager manages Redis-based caching of build results.
type Manager struct {
	client *redis.Client
	config *Config
}

// NewManager creates a new cache manager instance.
func NewManager(client *redis.Client, config *Config) *Manager {
	return &Manager{
		client: client,
		config: config,
	}
}

// GetResult retrieves a cached build result by name. A cache miss returns
// (nil, nil).
func (m *Manager) GetResult(ctx context.Context, name string) (*builder.Result, error) {
	key := m.config.PrefixKey("result:" + name)

	data, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var result builder.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SetResult stores a build result under a name with the configured TTL.
func (m *Manager) SetResult(ctx context.Context, name string, result *builder.Result) error {
	key := m.config.PrefixKey("result:" + name)

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return m.client.Set(ctx, key, data, m.config.TTL).Err()
}

// InvalidateResult removes a cached build result.
func (m *Manager) InvalidateResult(ctx context.Context, name string) error {
	return m.client.Del(ctx, m.config.PrefixKey("result:"+name)).Err()
}
