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

package query

import "github.com/opentrusty/ledgerquery/enginecfg"

// normalizePageSize applies the engine-wide pagination rule shared by
// every paginated handler: zero means "use the configured default",
// negative or over-the-configured-max is rejected outright (§8
// "page_size boundary case").
func normalizePageSize(requested int, cfg enginecfg.Pagination) (int, bool) {
	if requested < 0 {
		return 0, false
	}
	if requested == 0 {
		return cfg.DefaultPageSize, true
	}
	if requested > cfg.MaxPageSize {
		return 0, false
	}
	return requested, true
}
