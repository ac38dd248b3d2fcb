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

package permission

import "testing"

func TestSetHas(t *testing.T) {
	s := NewSet(GetMyAccount, GetBlocks)

	if !s.Has(GetMyAccount) {
		t.Fatalf("expected GetMyAccount to be set")
	}
	if !s.Has(GetBlocks) {
		t.Fatalf("expected GetBlocks to be set")
	}
	if s.Has(GetAllAccounts) {
		t.Fatalf("expected GetAllAccounts to be unset")
	}
}

func TestSetHasRoot(t *testing.T) {
	withRoot := NewSet(Root)
	withoutRoot := NewSet(GetMyAccount)

	if !withRoot.HasRoot() {
		t.Fatalf("expected Root to be detected")
	}
	if withoutRoot.HasRoot() {
		t.Fatalf("expected Root to be absent")
	}
}

func TestSetUnion(t *testing.T) {
	a := NewSet(GetMyAccount)
	b := NewSet(GetBlocks)
	u := a.Union(b)

	if !u.Has(GetMyAccount) || !u.Has(GetBlocks) {
		t.Fatalf("union should contain permissions from both sets")
	}
}
