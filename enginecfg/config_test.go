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

package enginecfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	content := "pagination:\n  default_page_size: 25\n  max_page_size: 50\nworld_state:\n  host: db.internal\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pagination.DefaultPageSize != 25 || cfg.Pagination.MaxPageSize != 50 {
		t.Fatalf("pagination not overridden: %+v", cfg.Pagination)
	}
	if cfg.WorldState.Host != "db.internal" {
		t.Fatalf("expected host override, got %q", cfg.WorldState.Host)
	}
	if cfg.WorldState.SSLMode != "disable" {
		t.Fatalf("expected unset field to retain default, got %q", cfg.WorldState.SSLMode)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/engine.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
