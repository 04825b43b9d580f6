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

package http

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-concord/concord/pkg/log"
	"github.com/go-concord/concord/pkg/safe"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	BodyLimit       int
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	Auth            Auth
}

// Auth carries the key used to validate bearer tokens. Tokens are issued
// out-of-band; this service only consumes them.
type Auth struct {
	SecretKey string
}

// NewHttp starts the fiber app and returns a shutdown hook that blocks until
// an exit signal arrives, then drains the server.
func NewHttp(cfg Http, app *fiber.App) func() {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	safe.Go(func() {
		log.Infof("[Init] http server start at: %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("http server error: %v", err)
		}
	})

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return func() {
		<-sc
		log.Info("[Shutdown] http server shutting down...")

		timeout := time.Duration(cfg.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			log.Errorw("server shutdown error", "error", err)
		} else {
			log.Info("[Shutdown] http server shut down gracefully.")
		}
	}
}
