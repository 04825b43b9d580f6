package router

import (
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// moduleRouter registers the module gate routes.
func (rt *Router) moduleRouter(r fiber.Router) {
	modules := r.Group("/modules")
	{
		modules.Get("/:module/enabled", rt.getModuleEnabled)       // GET /modules/:module/enabled
		modules.Post("/cache/invalidate", rt.invalidateGateCache) // POST /modules/cache/invalidate
	}
}

type invalidateRequest struct {
	Module string `json:"module"`
}

func (rt *Router) getModuleEnabled(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	module := c.Params("module")

	enabled := rt.Services.Gate.IsEnabled(c.UserContext(), module, tenant)
	return http.WithRepJSON(c, fiber.Map{"module": module, "tenant": tenant, "enabled": enabled})
}

// invalidateGateCache drops cached gate decisions for the tenant. A request
// naming a module drops only that module's entry; an empty body drops the
// whole tenant.
func (rt *Router) invalidateGateCache(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	var req invalidateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request body", c.Path())
		}
	}

	if req.Module != "" {
		rt.Services.Gate.InvalidateModule(tenant, req.Module)
	} else {
		rt.Services.Gate.InvalidateTenant(tenant)
	}
	return http.WithRepNotDetail(c)
}
