package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-concord/concord/internal/engine/config"
	"github.com/go-concord/concord/internal/engine/consts"
	"github.com/go-concord/concord/internal/engine/model"
	"github.com/go-concord/concord/internal/engine/router"
	"github.com/go-concord/concord/internal/engine/service"
	"github.com/go-concord/concord/pkg/cron"
	"github.com/go-concord/concord/pkg/database"
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/middleware"
	"github.com/go-concord/concord/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp   *fiber.App
	Scheduler *cron.Scheduler
	Logger    *log.Logger
	Setting   *service.SettingService
	AppConf   *config.AppConfig
}

// InitAppFunc is the wire-generated constructor signature.
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	scheduler *cron.Scheduler,
	settingSvc *service.SettingService,
	db database.IDatabase,
	appConf *config.AppConfig,
) (*App, func(), error) {
	// route the global log helpers to the configured logger
	log.MustInit(&appConf.Log)

	if err := db.Database().AutoMigrate(&model.Setting{}, &model.SettingHistory{}); err != nil {
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}

	app := &App{
		HttpApp:   rt.Router(),
		Scheduler: scheduler,
		Logger:    logger,
		Setting:   settingSvc,
		AppConf:   appConf,
	}

	cleanup := func() {
		scheduler.Stop()
	}

	return app, cleanup, nil
}

// Bootstrap builds the app through the wire-generated initializer.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run starts the app and blocks until an exit signal, then shuts down
// gracefully.
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	appConf := app.AppConf
	ctx := context.Background()

	seedDefaults(ctx, app.Setting)
	startScheduler(ctx, app)

	// blocks until an exit signal arrives, then drains in-flight requests
	wait := http.NewHttp(appConf.Http, app.HttpApp)
	wait()

	cleanup()

	logger.Info("Server shutdown complete")
}

// seedDefaults installs the built-in defaults as global rows on an empty
// store. Existing rows are left alone, so a restart never clobbers edits.
func seedDefaults(ctx context.Context, settingSvc *service.SettingService) {
	rows, err := settingSvc.GetAll(ctx, "")
	if err != nil {
		log.Errorw("defaults seed skipped, store unreachable", "error", err)
		return
	}
	if len(rows) > 0 {
		return
	}
	if err := settingSvc.InitializeDefaults(ctx, ""); err != nil {
		log.Errorw("defaults seed failed", "error", err)
		return
	}
	log.Infow("defaults seeded")
}

// startScheduler registers the configured jobs and starts the scheduler when
// cron_job_enabled resolves truthy for the default tenant. Later flips of the
// flag are handled by the change dispatcher.
func startScheduler(ctx context.Context, app *App) {
	for _, job := range app.AppConf.Cron.Jobs {
		if err := app.Scheduler.AddJob(job.Name, job.Spec, func() {
			log.Infow("cron job fired", "job", job.Name)
		}); err != nil {
			log.Errorw("cron job registration failed", "job", job.Name, "error", err)
		}
	}

	enabled, err := app.Setting.Get(ctx, consts.KeyCronJobEnabled, middleware.DefaultTenant)
	if err != nil {
		log.Errorw("cron flag resolution failed, scheduler stays stopped", "error", err)
		return
	}
	if enabled != nil && service.IsTruthy(*enabled) {
		app.Scheduler.Start()
	}
}
