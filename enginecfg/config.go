// Copyright 2026 The OpenTrusty Authors
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

// Package enginecfg holds the query engine's own tunables: default and
// maximum page sizes, and the connection details for the two stores it
// reads from. This is distinct from the host process's bootstrap and
// configuration loading, which remains out of scope for the engine
// (§1 Non-goals) — this package only ever configures components the
// engine itself owns.
//
// Purpose: Typed configuration surface, loaded from YAML.
// Domain: Ledger (Infrastructure)
package enginecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorldState holds the world-state Postgres connection parameters.
type WorldState struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"sslmode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// BlockStore holds the embedded block-log store's parameters.
type BlockStore struct {
	Path string `yaml:"path"`
}

// Pagination holds the engine-wide pagination defaults that each
// paginated handler applies to a requested page size: zero selects
// DefaultPageSize, and a negative size or one above MaxPageSize is
// rejected as invalid pagination. A page size of zero is not rejected.
type Pagination struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// Config is the engine's complete tunable surface.
type Config struct {
	WorldState WorldState `yaml:"world_state"`
	BlockStore BlockStore `yaml:"block_store"`
	Pagination Pagination `yaml:"pagination"`
}

// Default returns the engine's built-in defaults, used when no config
// file is supplied (e.g. by tests constructing an engine in-process).
func Default() Config {
	return Config{
		WorldState: WorldState{
			Host:         "localhost",
			Port:         "5432",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 10,
		},
		BlockStore: BlockStore{Path: "./data/blocks"},
		Pagination: Pagination{DefaultPageSize: 100, MaxPageSize: 1000},
	}
}

// Load reads a YAML config file from path, applying it on top of
// Default so a partial file only overrides what it sets.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("enginecfg: failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("enginecfg: failed to parse config: %w", err)
	}

	return cfg, nil
}
