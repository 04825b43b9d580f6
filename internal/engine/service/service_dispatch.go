package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-concord/concord/internal/engine/consts"
	"github.com/go-concord/concord/internal/engine/integration"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/cron"
	"github.com/go-concord/concord/pkg/log"
	"github.com/go-concord/concord/pkg/metrics"
)

// ChangeEvent describes one committed setting write.
type ChangeEvent struct {
	Key    string
	Value  string
	Tenant string
}

// ChangeHandler reacts to setting changes whose key matches its predicate.
type ChangeHandler struct {
	Name   string
	Match  func(key string) bool
	Handle func(ctx context.Context, ev ChangeEvent) error
}

// DispatchResult is one handler's outcome for an event.
type DispatchResult struct {
	Handler string
	Err     error
}

// DispatchSummary reports every matched handler's outcome. It exists for
// observability only and never gates the originating write.
type DispatchSummary struct {
	Results []DispatchResult
}

// Ok reports whether every matched handler succeeded.
func (s DispatchSummary) Ok() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// Dispatcher runs a fixed, ordered handler registry against committed
// setting changes. The registry is built once at startup; handlers are
// independent and one failing never stops the rest.
type Dispatcher struct {
	handlers []ChangeHandler
}

func NewDispatcher(handlers ...ChangeHandler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Dispatch invokes every matching handler in registration order. Panics are
// contained per handler; failures are logged and counted.
func (d *Dispatcher) Dispatch(ctx context.Context, ev ChangeEvent) DispatchSummary {
	var summary DispatchSummary
	for _, h := range d.handlers {
		if h.Match == nil || !h.Match(ev.Key) {
			continue
		}
		err := runHandler(ctx, h, ev)
		if err != nil {
			log.Errorw("setting change handler failed",
				"handler", h.Name, "key", ev.Key, "tenant", ev.Tenant, "error", err)
			metrics.DispatchFailuresTotal.WithLabelValues(h.Name).Inc()
		}
		summary.Results = append(summary.Results, DispatchResult{Handler: h.Name, Err: err})
	}
	return summary
}

func runHandler(ctx context.Context, h ChangeHandler, ev ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

// IsTruthy matches the spellings a module flag may be stored as:
// boolean true, "true", "1", numeric 1. Matching is case-insensitive.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	}
	return false
}

// ModuleFromKey strips the module_ prefix; empty when the key is not a
// module flag.
func ModuleFromKey(key string) string {
	if !strings.HasPrefix(key, consts.ModuleKeyPrefix) {
		return ""
	}
	return strings.TrimPrefix(key, consts.ModuleKeyPrefix)
}

// NewDefaultHandlers builds the production handler registry in its fixed
// order.
func NewDefaultHandlers(
	settingRepo repo.ISettingRepository,
	gate *cache.GateCache,
	scheduler *cron.Scheduler,
	boot *integration.Bootstrapper,
	snapshots *SnapshotStore,
) []ChangeHandler {
	return []ChangeHandler{
		{
			// A module flag flipped: drop the cached gate answer so the
			// change takes effect immediately, with the TTL as safety net.
			Name:  "module-flag",
			Match: func(key string) bool { return strings.HasPrefix(key, consts.ModuleKeyPrefix) },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				module := ModuleFromKey(ev.Key)
				gate.InvalidateModule(ev.Tenant, module)
				log.Infow("module flag changed",
					"tenant", ev.Tenant, "module", module, "enabled", IsTruthy(ev.Value))
				return nil
			},
		},
		{
			Name: "mail-config",
			Match: func(key string) bool {
				return strings.HasPrefix(key, "smtp_") || key == consts.KeyEmailDriver
			},
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				return checkMailConfig(ctx, settingRepo, ev.Tenant)
			},
		},
		{
			Name:  "theme-snapshot",
			Match: isThemeKey,
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				return snapshots.RefreshTheme(ctx, ev.Tenant)
			},
		},
		{
			Name:  "cron-toggle",
			Match: func(key string) bool { return key == consts.KeyCronJobEnabled },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				if IsTruthy(ev.Value) {
					scheduler.Start()
				} else {
					scheduler.Stop()
				}
				return nil
			},
		},
		{
			Name:  "google-calendar-bootstrap",
			Match: func(key string) bool { return key == consts.KeyGoogleCalendarEnabled },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				if !IsTruthy(ev.Value) {
					return nil
				}
				return boot.GoogleCalendar(ctx)
			},
		},
		{
			Name:  "slack-bootstrap",
			Match: func(key string) bool { return key == consts.KeySlackEnabled },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				if !IsTruthy(ev.Value) {
					return nil
				}
				return boot.Slack(ctx)
			},
		},
		{
			Name:  "zapier-bootstrap",
			Match: func(key string) bool { return key == consts.KeyZapierEnabled },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				if !IsTruthy(ev.Value) {
					return nil
				}
				return boot.Zapier(ctx)
			},
		},
		{
			Name:  "pwa-manifest",
			Match: func(key string) bool { return key == consts.KeyPwaEnabled },
			Handle: func(ctx context.Context, ev ChangeEvent) error {
				if !IsTruthy(ev.Value) {
					return nil
				}
				return snapshots.RefreshPWAManifest(ctx, ev.Tenant)
			},
		},
	}
}

func isThemeKey(key string) bool {
	switch key {
	case consts.KeyThemeMode, consts.KeyPrimaryColor, consts.KeySecondaryColor, consts.KeyFontFamily:
		return true
	}
	return false
}

// checkMailConfig verifies the mail configuration is complete enough to
// send. It never attempts a live connection.
func checkMailConfig(ctx context.Context, settingRepo repo.ISettingRepository, tenant string) error {
	var missing []string
	for _, key := range []string{"smtp_host", "smtp_port", "smtp_username"} {
		row, err := settingRepo.Get(ctx, tenant, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if row == nil || row.Value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("mail configuration incomplete, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
