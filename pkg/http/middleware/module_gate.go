// Copyright 2025 Concord Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-concord/concord/pkg/http"
	"github.com/go-concord/concord/pkg/http/jwt"
	"github.com/go-concord/concord/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// DefaultTenant is assumed when neither the auth claims nor the request name
// a tenant. Single-tenant deployments run entirely under it.
const DefaultTenant = "1"

// ModuleGate answers whether a module is enabled for a tenant.
type ModuleGate interface {
	IsEnabled(ctx context.Context, module, tenant string) bool
}

// TenantFromCtx resolves the tenant for a request: auth claims first, then an
// explicit request parameter, then DefaultTenant.
func TenantFromCtx(c *fiber.Ctx) string {
	if claims, ok := c.Locals("claims").(*jwt.AuthClaims); ok && claims != nil && claims.TenantId != "" {
		return claims.TenantId
	}
	if tenant := c.Query("tenant"); tenant != "" {
		return tenant
	}
	if tenant := c.Get("X-Tenant-Id"); tenant != "" {
		return tenant
	}
	return DefaultTenant
}

// RequireModule denies the request when the module is not enabled for the
// request's tenant. Internal errors in the gate check never block traffic:
// the request is allowed through and the error logged.
func RequireModule(gate ModuleGate, module string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := TenantFromCtx(c)

		enabled, err := checkGate(c, gate, module, tenant)
		if err != nil {
			log.Errorw("module gate check failed, allowing request", "module", module, "tenant", tenant, "error", err)
			return c.Next()
		}
		if !enabled {
			http.WithRepErrMsg(c, http.ModuleDisabled.Code,
				fmt.Sprintf("module %q is not enabled", module), c.Path())
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

// RequireAnyModule allows the request when at least one of the named modules
// is enabled for the request's tenant.
func RequireAnyModule(gate ModuleGate, modules ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := TenantFromCtx(c)

		for _, module := range modules {
			enabled, err := checkGate(c, gate, module, tenant)
			if err != nil {
				log.Errorw("module gate check failed, allowing request", "module", module, "tenant", tenant, "error", err)
				return c.Next()
			}
			if enabled {
				return c.Next()
			}
		}
		http.WithRepErrMsg(c, http.ModuleDisabled.Code,
			fmt.Sprintf("none of the modules [%s] are enabled", strings.Join(modules, ", ")), c.Path())
		return fiber.ErrForbidden
	}
}

// RequireAllModules allows the request only when every named module is
// enabled; the denial names exactly the disabled modules.
func RequireAllModules(gate ModuleGate, modules ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := TenantFromCtx(c)

		var blockers []string
		for _, module := range modules {
			enabled, err := checkGate(c, gate, module, tenant)
			if err != nil {
				log.Errorw("module gate check failed, allowing request", "module", module, "tenant", tenant, "error", err)
				return c.Next()
			}
			if !enabled {
				blockers = append(blockers, module)
			}
		}
		if len(blockers) > 0 {
			http.WithRepErrMsg(c, http.ModuleDisabled.Code,
				fmt.Sprintf("modules not enabled: %s", strings.Join(blockers, ", ")), c.Path())
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

// checkGate isolates panics from the gate implementation so gating can never
// take down a request.
func checkGate(c *fiber.Ctx, gate ModuleGate, module, tenant string) (enabled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gate check panic: %v", r)
		}
	}()
	return gate.IsEnabled(c.UserContext(), module, tenant), nil
}
