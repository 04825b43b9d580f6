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
	"github.com/google/wire"
)

// defaultLocalMaxBytes is the default local cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// ProviderSet provides the cache dependencies (settings read cache + gate cache).
var ProviderSet = wire.NewSet(
	ProvideICache,
	ProvideGateCache,
)

// ProvideICache provides the settings read cache. Redis modes back it with a
// shared Redis; anything else falls back to the in-process FastCache.
func ProvideICache(conf Redis) (ICache, error) {
	switch conf.Mode {
	case "single", "sentinel":
		client, err := NewRedis(conf)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(client), nil
	default:
		return NewFastCache(FastCacheConfig{MaxBytes: defaultLocalMaxBytes}), nil
	}
}

// ProvideGateCache provides the module-gate cache with the default TTL.
func ProvideGateCache() *GateCache {
	return NewGateCache()
}
