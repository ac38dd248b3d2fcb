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

// Package digest computes the fallback query_hash every response
// carries when the caller did not supply one (§6 Outbound contract).
// Generalizes the identity write-path's keyed HMAC identifier hash into
// an unkeyed content digest suited to a deterministic, non-secret
// query fingerprint.
//
// Purpose: Deterministic content digest for ad-hoc queries.
// Domain: Ledger
package digest

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// QueryDigest computes a stable hex-encoded BLAKE2b-256 digest over the
// canonical fields of a query. Equal inputs, in the same order, always
// produce the same digest, matching the "pagination determinism"
// invariant in §8 applied to the response envelope itself.
func QueryDigest(fields ...string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an over-long key; nil never does.
		panic(fmt.Sprintf("digest: unexpected blake2b init failure: %v", err))
	}
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
