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

package ledger

import (
	"fmt"
	"math/big"

	"github.com/opentrusty/ledgerquery/identifier"
)

// AccountAssetBalance is a single (account, asset) -> amount reading.
//
// Purpose: Canonical decimal rendering of a balance for GetAccountAssets.
// Domain: Ledger
// Invariants: Amount >= 0. String form has exactly Asset.Precision
// fractional digits.
type AccountAssetBalance struct {
	AssetID identifier.AssetID
	Amount  *big.Rat
}

// RenderBalance renders amount as a canonical decimal string with
// exactly precision fractional digits, per §3's balance invariant.
func RenderBalance(amount *big.Rat, precision uint8) string {
	return amount.FloatString(int(precision))
}

// ParseBalance parses a canonical decimal string back into a *big.Rat,
// the inverse of RenderBalance, used by stores scanning a stored
// numeric/decimal column into the domain type.
func ParseBalance(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("ledger: invalid balance string %q", s)
	}
	return r, nil
}
