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

package pebble

import (
	"encoding/binary"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

// Key layout. Every ordered index key ends in a fixed-width big-endian
// (height, index) suffix so lexicographic byte order on the key IS
// integral (height, index) order (§9): heights never get compared as
// decimal strings.
const (
	prefixMeta                = "m:"
	prefixBlock               = "b:"
	prefixTx                  = "t:"
	prefixAccountTx           = "a:"
	prefixAccountAssetTx      = "aa:"
	prefixAccountTxCount      = "na:"
	prefixAccountAssetTxCount = "naa:"
)

const metaHeightKey = prefixMeta + "height"

func blockKey(height uint64) []byte {
	key := make([]byte, len(prefixBlock)+8)
	copy(key, prefixBlock)
	binary.BigEndian.PutUint64(key[len(prefixBlock):], height)
	return key
}

func txKey(hash identifier.TxHash) []byte {
	return append([]byte(prefixTx), []byte(hash)...)
}

func locationSuffix(loc ledger.TxLocation) []byte {
	suffix := make([]byte, 12)
	binary.BigEndian.PutUint64(suffix[0:8], loc.Height)
	binary.BigEndian.PutUint32(suffix[8:12], uint32(loc.Index))
	return suffix
}

func accountTxPrefix(account identifier.AccountID) []byte {
	key := append([]byte(prefixAccountTx), []byte(account)...)
	return append(key, 0)
}

func accountTxKey(account identifier.AccountID, loc ledger.TxLocation) []byte {
	return append(accountTxPrefix(account), locationSuffix(loc)...)
}

func accountAssetTxPrefix(account identifier.AccountID, asset identifier.AssetID) []byte {
	key := append([]byte(prefixAccountAssetTx), []byte(account)...)
	key = append(key, 0)
	key = append(key, []byte(asset)...)
	return append(key, 0)
}

func accountAssetTxKey(account identifier.AccountID, asset identifier.AssetID, loc ledger.TxLocation) []byte {
	return append(accountAssetTxPrefix(account, asset), locationSuffix(loc)...)
}

// accountTxCountKey holds the running total of committed transactions
// created by account, maintained in the same batch as accountTxKey so
// GetAccountTransactions can serve Total in O(1).
func accountTxCountKey(account identifier.AccountID) []byte {
	return append([]byte(prefixAccountTxCount), []byte(account)...)
}

// accountAssetTxCountKey holds the running total of committed
// transactions touching account as sender or recipient and moving
// asset, the O(1) counterpart of accountAssetTxKey.
func accountAssetTxCountKey(account identifier.AccountID, asset identifier.AssetID) []byte {
	key := append([]byte(prefixAccountAssetTxCount), []byte(account)...)
	key = append(key, 0)
	return append(key, []byte(asset)...)
}

// decodeLocation reads the trailing 12-byte (height, index) suffix off
// an index key that was built by accountTxKey or accountAssetTxKey.
func decodeLocation(key []byte) ledger.TxLocation {
	suffix := key[len(key)-12:]
	return ledger.TxLocation{
		Height: binary.BigEndian.Uint64(suffix[0:8]),
		Index:  int(binary.BigEndian.Uint32(suffix[8:12])),
	}
}

// seekKey returns the key to SeekGE for "strictly after since": the
// exact key for since itself, which the iterator then skips past.
func seekKey(prefix []byte, since ledger.TxLocation) []byte {
	return append(append([]byte{}, prefix...), locationSuffix(since)...)
}
