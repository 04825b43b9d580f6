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

package conf

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/go-concord/concord/pkg/log"
	"github.com/spf13/viper"
)

// LoadConfigFile reads a TOML config file into cfg and re-reads it on change.
// cfg must be a pointer.
func LoadConfigFile(confFile string, cfg interface{}) error {
	vCfg := viper.New()
	vCfg.SetConfigFile(confFile)
	vCfg.SetConfigType("toml")
	vCfg.AutomaticEnv()

	if err := vCfg.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	vCfg.WatchConfig()
	vCfg.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, re-reading: %s", e.Name)
		if err := vCfg.Unmarshal(cfg); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err)
		}
	})

	if err := vCfg.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	return nil
}
