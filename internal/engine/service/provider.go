package service

import (
	"github.com/go-concord/concord/internal/engine/integration"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/internal/engine/validate"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/cron"
	"github.com/google/wire"
)

// ProviderSet provides the service-layer dependencies.
var ProviderSet = wire.NewSet(
	ProvideValidator,
	ProvideSnapshotStore,
	ProvideDispatcher,
	NewSettingService,
	ProvideModuleGateService,
)

func ProvideValidator() validate.IValidator {
	return validate.NewValidator()
}

func ProvideSnapshotStore(settingRepo repo.ISettingRepository, c cache.ICache) *SnapshotStore {
	return NewSnapshotStore(settingRepo, c)
}

func ProvideDispatcher(
	settingRepo repo.ISettingRepository,
	gate *cache.GateCache,
	scheduler *cron.Scheduler,
	boot *integration.Bootstrapper,
	snapshots *SnapshotStore,
) *Dispatcher {
	return NewDispatcher(NewDefaultHandlers(settingRepo, gate, scheduler, boot, snapshots)...)
}

func ProvideModuleGateService(settings *SettingService, gate *cache.GateCache) *ModuleGateService {
	return NewModuleGateService(settings, gate)
}
