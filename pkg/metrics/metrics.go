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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// GateCacheHitsTotal counts fresh module-gate cache hits
	GateCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_gate_cache_hits_total",
			Help: "Total number of fresh module-gate cache hits",
		},
		[]string{"module"},
	)

	// GateCacheMissesTotal counts module-gate cache misses (absent or stale)
	GateCacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_gate_cache_misses_total",
			Help: "Total number of module-gate cache misses",
		},
		[]string{"module"},
	)

	// GateFailOpenTotal counts degraded-mode fail-open gate answers
	GateFailOpenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_gate_fail_open_total",
			Help: "Total number of module-gate checks answered fail-open due to storage errors",
		},
		[]string{"module"},
	)

	// SettingWritesTotal counts committed setting writes
	SettingWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setting_writes_total",
			Help: "Total number of committed setting writes",
		},
	)

	// DispatchFailuresTotal counts side-effect handler failures
	DispatchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setting_dispatch_failures_total",
			Help: "Total number of setting change handler failures",
		},
		[]string{"handler"},
	)
)

func init() {
	prometheus.MustRegister(
		GateCacheHitsTotal,
		GateCacheMissesTotal,
		GateFailOpenTotal,
		SettingWritesTotal,
		DispatchFailuresTotal,
	)
}
