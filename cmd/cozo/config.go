// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the CLI's own settings, loaded from an optional YAML file
// (--config): a small, flat set of knobs the host fills in once.
type Config struct {
	// StorePath, when set, backs the temp-store session with
	// github.com/boltdb/bolt instead of the default in-memory session.
	StorePath string `yaml:"store_path"`
	// Verbose enables Debug-level logging of stratum/epoch progress.
	Verbose bool `yaml:"verbose"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
