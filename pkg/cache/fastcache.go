// Copyright 2025 Concord Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/go-concord/concord/pkg/safe"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is a local cache implementation using VictoriaMetrics fastcache.
// It satisfies ICache so the settings read cache can run without a Redis
// deployment.
type FastCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // map[string]time.Time for tracking expiration
	mu    sync.RWMutex
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}

	return &FastCache{
		cache: fastcache.New(maxBytes),
	}
}

// Get returns the value for the given key
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx, "get", key)

	if exp, ok := fc.ttls.Load(key); ok {
		if time.Now().After(exp.(time.Time)) {
			cmd.SetErr(redis.Nil)
			return cmd
		}
	}

	value := fc.cache.Get(nil, []byte(key))
	if value == nil {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(string(value))
	return cmd
}

// Set sets the value for the given key with expiration
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.cache.Set([]byte(key), valueBytes)

	if expiration > 0 {
		fc.ttls.Store(key, time.Now().Add(expiration))
		safe.GoWith(func(args cleanupArgs) {
			fc.cleanupExpiredKeyWithDelay(args.key, args.delay)
		}, cleanupArgs{key: key, delay: expiration})
	}

	cmd.SetVal("OK")
	return cmd
}

// cleanupArgs holds arguments for cleanup goroutine
type cleanupArgs struct {
	key   string
	delay time.Duration
}

func (fc *FastCache) cleanupExpiredKeyWithDelay(key string, delay time.Duration) {
	<-time.After(delay)
	fc.cleanupExpiredKey(key)
}

// cleanupExpiredKey removes a key if it has expired
func (fc *FastCache) cleanupExpiredKey(key string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if exp, ok := fc.ttls.Load(key); ok {
		if time.Now().After(exp.(time.Time)) {
			fc.cache.Del([]byte(key))
			fc.ttls.Delete(key)
		}
	}
}

// Del deletes the given keys
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	count := int64(0)
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			fc.ttls.Delete(key)
			count++
		}
	}

	cmd := redis.NewIntCmd(ctx, "del", keys)
	cmd.SetVal(count)
	return cmd
}

// Exists checks if the given keys exist in the cache
func (fc *FastCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	count := int64(0)
	for _, key := range keys {
		if exp, ok := fc.ttls.Load(key); ok {
			if time.Now().After(exp.(time.Time)) {
				continue
			}
		}
		if fc.cache.Has([]byte(key)) {
			count++
		}
	}

	cmd := redis.NewIntCmd(ctx, "exists", keys)
	cmd.SetVal(count)
	return cmd
}

// Expire sets the expiration time for a key
func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx, "expire", key)

	if !fc.cache.Has([]byte(key)) {
		cmd.SetVal(false)
		return cmd
	}

	if expiration > 0 {
		fc.ttls.Store(key, time.Now().Add(expiration))
		safe.GoWith(func(args cleanupArgs) {
			fc.cleanupExpiredKeyWithDelay(args.key, args.delay)
		}, cleanupArgs{key: key, delay: expiration})
	}

	cmd.SetVal(true)
	return cmd
}

// Clear removes all items from the cache
func (fc *FastCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Reset()
	fc.ttls.Range(func(key, value interface{}) bool {
		fc.ttls.Delete(key)
		return true
	})
}

// Stats returns cache statistics
func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}
