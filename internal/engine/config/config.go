package config

import (
	"fmt"
	"sync"

	"github.com/go-concord/concord/internal/engine/integration"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/conf"
	"github.com/go-concord/concord/pkg/database"
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/log"
)

// CronConfig holds the scheduler bootstrap jobs. Specs use the standard
// five-field cron syntax.
type CronConfig struct {
	Jobs []CronJob
}

type CronJob struct {
	Name string
	Spec string
}

type AppConfig struct {
	Log          log.Conf
	Http         http.Http
	Database     database.Database
	Redis        cache.Redis
	Cron         CronConfig
	Integrations integration.Conf
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf loads the config file once; later changes are picked up by the
// watcher inside pkg/conf.
func NewConf(confFile string) *AppConfig {
	once.Do(func() {
		if err := conf.LoadConfigFile(confFile, &cfg); err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return &cfg
}
