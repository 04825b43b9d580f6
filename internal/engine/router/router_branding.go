package router

import (
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// brandingRouter serves the precomputed theme and PWA snapshots. Snapshots
// are refreshed by the change dispatcher; a cold read falls through to the
// resolver.
func (rt *Router) brandingRouter(r fiber.Router) {
	branding := r.Group("/branding")
	{
		branding.Get("/theme", rt.getTheme)
		branding.Get("/pwa-manifest", rt.getPWAManifest)
	}
}

func (rt *Router) getTheme(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	snap, err := rt.Services.Snapshots.Theme(c.UserContext(), tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if snap == nil {
		if err := rt.Services.Snapshots.RefreshTheme(c.UserContext(), tenant); err != nil {
			return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
		}
		if snap, err = rt.Services.Snapshots.Theme(c.UserContext(), tenant); err != nil {
			return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
		}
	}
	return http.WithRepJSON(c, snap)
}

func (rt *Router) getPWAManifest(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	manifest, err := rt.Services.Snapshots.PWAManifest(c.UserContext(), tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if manifest == nil {
		if err := rt.Services.Snapshots.RefreshPWAManifest(c.UserContext(), tenant); err != nil {
			return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
		}
		if manifest, err = rt.Services.Snapshots.PWAManifest(c.UserContext(), tenant); err != nil {
			return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
		}
	}
	return http.WithRepJSON(c, manifest)
}
