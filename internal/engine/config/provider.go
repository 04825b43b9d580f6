package config

import (
	"github.com/go-concord/concord/internal/engine/integration"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/database"
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides the configuration layer.
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideIntegrationConfig,
)

func ProvideConf(configPath string) *AppConfig {
	return NewConf(configPath)
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideIntegrationConfig(appConf *AppConfig) integration.Conf {
	return appConf.Integrations
}
