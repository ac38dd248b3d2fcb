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

package identifier

import "testing"

func TestParseAccountID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "valid", in: "alice@wonderland", wantErr: false},
		{name: "missing domain", in: "alice@", wantErr: true},
		{name: "missing at", in: "alice.wonderland", wantErr: true},
		{name: "double at", in: "alice@won@derland", wantErr: true},
		{name: "uppercase name", in: "Alice@wonderland", wantErr: true},
		{name: "subdomain", in: "bob@sub.wonderland", wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccountID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAccountID(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestAccountIDSameDomain(t *testing.T) {
	a, _ := ParseAccountID("alice@wonderland")
	b, _ := ParseAccountID("bob@wonderland")
	c, _ := ParseAccountID("carl@andomain")

	if !a.SameDomain(b) {
		t.Fatalf("expected alice and bob to share a domain")
	}
	if a.SameDomain(c) {
		t.Fatalf("expected alice and carl to not share a domain")
	}
}

func TestAssetIDParse(t *testing.T) {
	if _, err := ParseAssetID("coin#domain"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseAssetID("coin@domain"); err == nil {
		t.Fatalf("expected error for wrong separator")
	}
}

func TestParseTxHash(t *testing.T) {
	valid := "ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34"
	if len(valid) != 64 {
		t.Fatalf("test fixture must be 64 chars, got %d", len(valid))
	}
	if _, err := ParseTxHash(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseTxHash("too_short"); err == nil {
		t.Fatalf("expected error for short hash")
	}
	if _, err := ParseTxHash("ZZ12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34"); err == nil {
		t.Fatalf("expected error for non-hex hash")
	}
}
