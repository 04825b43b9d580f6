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
	"hash/fnv"
	"sync"
	"time"
)

// DefaultGateTTL is how long a cached module-gate answer stays fresh.
const DefaultGateTTL = 60 * time.Second

const gateShardCount = 32

// gateEntry is one cached answer for a (tenant, module) pair.
type gateEntry struct {
	enabled  bool
	cachedAt time.Time
}

type gateShard struct {
	mu sync.RWMutex
	// tenant -> module -> entry; all modules of one tenant live in the
	// same shard so tenant-wide invalidation touches a single lock
	tenants map[string]map[string]gateEntry
}

// GateCache caches module enablement per (tenant, module) with a fixed TTL.
// Entries older than the TTL are logically absent. The clock is injected so
// expiry is testable without sleeping.
type GateCache struct {
	shards [gateShardCount]*gateShard
	ttl    time.Duration
	now    func() time.Time
}

// GateOption configures a GateCache.
type GateOption func(*GateCache)

// WithGateTTL overrides the freshness window.
func WithGateTTL(ttl time.Duration) GateOption {
	return func(g *GateCache) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithGateClock overrides the time source.
func WithGateClock(now func() time.Time) GateOption {
	return func(g *GateCache) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGateCache creates a gate cache with the default 60s TTL.
func NewGateCache(opts ...GateOption) *GateCache {
	g := &GateCache{
		ttl: DefaultGateTTL,
		now: time.Now,
	}
	for i := range g.shards {
		g.shards[i] = &gateShard{tenants: make(map[string]map[string]gateEntry)}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TTL returns the configured freshness window.
func (g *GateCache) TTL() time.Duration {
	return g.ttl
}

func (g *GateCache) shard(tenant string) *gateShard {
	h := fnv.New32a()
	h.Write([]byte(tenant))
	return g.shards[h.Sum32()%gateShardCount]
}

// Get returns the cached enablement for (tenant, module). ok is false when
// the entry is missing or stale; stale entries must be re-resolved before
// being trusted.
func (g *GateCache) Get(tenant, module string) (enabled, ok bool) {
	s := g.shard(tenant)
	s.mu.RLock()
	defer s.mu.RUnlock()

	modules, found := s.tenants[tenant]
	if !found {
		return false, false
	}
	entry, found := modules[module]
	if !found {
		return false, false
	}
	if g.now().Sub(entry.cachedAt) >= g.ttl {
		return false, false
	}
	return entry.enabled, true
}

// Set stores the enablement for (tenant, module), stamping it with the
// current clock. Concurrent writers racing on a miss overwrite each other
// harmlessly.
func (g *GateCache) Set(tenant, module string, enabled bool) {
	s := g.shard(tenant)
	s.mu.Lock()
	defer s.mu.Unlock()

	modules, found := s.tenants[tenant]
	if !found {
		modules = make(map[string]gateEntry)
		s.tenants[tenant] = modules
	}
	modules[module] = gateEntry{enabled: enabled, cachedAt: g.now()}
}

// InvalidateModule drops the cached answer for one (tenant, module) pair.
func (g *GateCache) InvalidateModule(tenant, module string) {
	s := g.shard(tenant)
	s.mu.Lock()
	defer s.mu.Unlock()

	if modules, found := s.tenants[tenant]; found {
		delete(modules, module)
		if len(modules) == 0 {
			delete(s.tenants, tenant)
		}
	}
}

// InvalidateTenant drops every cached answer for the tenant. Called after
// bulk settings operations that may touch module flags.
func (g *GateCache) InvalidateTenant(tenant string) {
	s := g.shard(tenant)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tenants, tenant)
}

// Len reports how many entries are stored, stale ones included.
func (g *GateCache) Len() int {
	n := 0
	for _, s := range g.shards {
		s.mu.RLock()
		for _, modules := range s.tenants {
			n += len(modules)
		}
		s.mu.RUnlock()
	}
	return n
}
