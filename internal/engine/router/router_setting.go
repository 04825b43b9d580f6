package router

import (
	"errors"

	"github.com/go-concord/concord/internal/engine/service"
	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// settingRouter registers the settings resolution routes.
func (rt *Router) settingRouter(r fiber.Router) {
	settings := r.Group("/settings")
	{
		settings.Get("/", rt.getSettings)                           // GET /settings - effective settings for the tenant
		settings.Get("/category/:category", rt.getSettingsByCategory) // GET /settings/category/:category
		settings.Put("/", rt.setSettingsBulk)                       // PUT /settings - bulk write
		settings.Post("/reset", rt.resetSettings)                   // POST /settings/reset - reset to defaults
		settings.Get("/:key/history", rt.getSettingHistory)         // GET /settings/:key/history
		settings.Get("/:key", rt.getSetting)                        // GET /settings/:key
		settings.Put("/:key", rt.setSetting)                        // PUT /settings/:key
		settings.Delete("/:key", rt.deleteSetting)                  // DELETE /settings/:key - tenant row only
	}
}

type setSettingRequest struct {
	Value any `json:"value"`
}

type bulkSettingRequest struct {
	Settings []struct {
		Key      string `json:"key"`
		Value    any    `json:"value"`
		Category string `json:"category"`
	} `json:"settings"`
}

func (rt *Router) getSettings(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	rows, err := rt.Services.Setting.GetAll(c.UserContext(), tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, rows)
}

func (rt *Router) getSettingsByCategory(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	category := c.Params("category")

	rows, err := rt.Services.Setting.GetByCategory(c.UserContext(), category, tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, rows)
}

func (rt *Router) getSetting(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	key := c.Params("key")

	value, err := rt.Services.Setting.Get(c.UserContext(), key, tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	// unset resolves to null, not an error
	return http.WithRepJSON(c, fiber.Map{"key": key, "value": value})
}

func (rt *Router) getSettingHistory(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	key := c.Params("key")
	limit := c.QueryInt("limit", 50)

	rows, err := rt.Services.Setting.History(c.UserContext(), key, tenant, limit)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, rows)
}

func (rt *Router) setSetting(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	key := c.Params("key")

	var req setSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request body", c.Path())
	}

	committed, err := rt.Services.Setting.Set(c.UserContext(), key, req.Value, tenant)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return http.WithRepErrDetail(c, http.ValidationFailed.Code, verr.Errors, c.Path())
		}
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, fiber.Map{"key": key, "value": committed})
}

func (rt *Router) setSettingsBulk(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)

	var req bulkSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "invalid request body", c.Path())
	}

	inputs := make([]service.SettingInput, 0, len(req.Settings))
	for _, s := range req.Settings {
		inputs = append(inputs, service.SettingInput{Key: s.Key, Value: s.Value, Category: s.Category})
	}

	committed, err := rt.Services.Setting.SetBulk(c.UserContext(), inputs, tenant)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return http.WithRepErrDetail(c, http.ValidationFailed.Code, verr.Errors, c.Path())
		}
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, committed)
}

func (rt *Router) deleteSetting(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	key := c.Params("key")

	if err := rt.Services.Setting.Delete(c.UserContext(), key, tenant); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepNotDetail(c)
}

// resetSettings clears every tenant-scoped row and re-applies the built-in
// defaults.
func (rt *Router) resetSettings(c *fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	ctx := c.UserContext()

	removed, err := rt.Services.Setting.DeleteAllForTenant(ctx, tenant)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if err := rt.Services.Setting.InitializeDefaults(ctx, tenant); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRepJSON(c, fiber.Map{"removed": removed})
}
