package router

import (
	"time"

	"github.com/go-concord/concord/internal/engine/service"
	httpx "github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/middleware"
	"github.com/go-concord/concord/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services groups the service-layer dependencies the routes call into.
type Services struct {
	Setting   *service.SettingService
	Gate      *service.ModuleGateService
	Snapshots *service.SnapshotStore
}

type Router struct {
	Http     *httpx.Http
	Services Services
}

func NewRouter(httpConf *httpx.Http, services Services) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
	}
}

// Router builds the fiber app with the shared middleware stack and all
// route groups registered.
func (rt *Router) Router() *fiber.App {
	bodyLimit := rt.Http.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "Concord",
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:    bodyLimit,
	})

	app.Use(
		fiberrecover.New(),
		cors.New(),
	)
	if rt.Http.AccessLog {
		app.Use(httpx.AccessLog())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	if rt.Http.PProf {
		rt.debugRouter(app.Group("/debug/pprof"))
	}

	auth := middleware.Authorization(rt.Http.Auth.SecretKey)

	contextPath := rt.Http.ContextPath
	if contextPath == "" {
		contextPath = "/api"
	}
	api := app.Group(contextPath, auth)
	{
		rt.settingRouter(api)
		rt.moduleRouter(api)
		rt.brandingRouter(api)
	}

	// must come after all route registrations
	app.Use(func(c *fiber.Ctx) error {
		c.Status(fiber.StatusNotFound)
		return httpx.WithRepErr(c, fiber.StatusNotFound, "request path not found", c.Path())
	})

	return app
}
