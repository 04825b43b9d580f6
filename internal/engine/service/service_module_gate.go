package service

import (
	"context"

	"github.com/go-concord/concord/internal/engine/consts"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/log"
	"github.com/go-concord/concord/pkg/metrics"
)

// SettingGetter is the read contract the gate needs from the resolver.
type SettingGetter interface {
	Get(ctx context.Context, key, tenant string) (*string, error)
}

// ModuleGateService answers "is module X enabled for tenant Y" through the
// gate cache, resolving misses against the settings resolver.
//
// Failure policy: when the resolver errors the gate answers true (fail-open)
// instead of propagating. The degraded answer is logged and counted but
// never cached.
type ModuleGateService struct {
	settings SettingGetter
	cache    *cache.GateCache
}

func NewModuleGateService(settings SettingGetter, gateCache *cache.GateCache) *ModuleGateService {
	return &ModuleGateService{
		settings: settings,
		cache:    gateCache,
	}
}

// IsEnabled reports whether the module is enabled for the tenant. A fresh
// cache entry answers without touching storage; stale entries are
// re-resolved. A value is enabled when it reads true/"true"/"1"/1,
// case-insensitively; an unset key is disabled.
func (mgs *ModuleGateService) IsEnabled(ctx context.Context, module, tenant string) bool {
	if enabled, ok := mgs.cache.Get(tenant, module); ok {
		metrics.GateCacheHitsTotal.WithLabelValues(module).Inc()
		return enabled
	}
	metrics.GateCacheMissesTotal.WithLabelValues(module).Inc()

	value, err := mgs.settings.Get(ctx, consts.ModuleKeyPrefix+module, tenant)
	if err != nil {
		metrics.GateFailOpenTotal.WithLabelValues(module).Inc()
		log.Errorw("module gate degraded: storage unavailable, failing open",
			"module", module, "tenant", tenant, "error", err)
		return true
	}

	enabled := value != nil && IsTruthy(*value)
	mgs.cache.Set(tenant, module, enabled)
	return enabled
}

// InvalidateModule drops the cached answer for one (tenant, module) pair.
func (mgs *ModuleGateService) InvalidateModule(tenant, module string) {
	mgs.cache.InvalidateModule(tenant, module)
}

// InvalidateTenant drops every cached answer for the tenant. Call it after
// bulk settings changes that may touch module flags.
func (mgs *ModuleGateService) InvalidateTenant(tenant string) {
	mgs.cache.InvalidateTenant(tenant)
}
