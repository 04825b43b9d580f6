//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-concord/concord/internal/bootstrap"
	"github.com/go-concord/concord/internal/engine/config"
	"github.com/go-concord/concord/internal/engine/integration"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/internal/engine/router"
	"github.com/go-concord/concord/internal/engine/service"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/cron"
	"github.com/go-concord/concord/pkg/log"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		repo.ProviderSet,
		cache.ProviderSet,
		cron.NewScheduler,
		integration.NewBootstrapper,
		service.ProviderSet,
		wire.Struct(new(router.Services), "*"),
		router.NewRouter,
		bootstrap.NewApp,
	))
}
